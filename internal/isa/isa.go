// Package isa holds the static tables that drive instruction parsing:
// mnemonic -> (opcode, func, operand count), and directive-word -> kind.
package isa

//go:generate go run golang.org/x/tools/cmd/stringer -type DirKind -output dirkind_string.go

// JumpOpcode is the opcode shared by jmp/bne/jsr, the only mnemonics that
// may take a Relative-mode operand.
const JumpOpcode = 9

// Op describes one mnemonic's encoding and arity.
type Op struct {
	Opcode   uint8
	Func     uint8
	Operands int
}

// Mnemonics maps each instruction mnemonic to its Op.
var Mnemonics = map[string]Op{
	"mov":  {Opcode: 0, Func: 0, Operands: 2},
	"cmp":  {Opcode: 1, Func: 0, Operands: 2},
	"add":  {Opcode: 2, Func: 1, Operands: 2},
	"sub":  {Opcode: 2, Func: 2, Operands: 2},
	"lea":  {Opcode: 4, Func: 0, Operands: 2},
	"clr":  {Opcode: 5, Func: 1, Operands: 1},
	"not":  {Opcode: 5, Func: 2, Operands: 1},
	"inc":  {Opcode: 5, Func: 3, Operands: 1},
	"dec":  {Opcode: 5, Func: 4, Operands: 1},
	"jmp":  {Opcode: JumpOpcode, Func: 1, Operands: 1},
	"bne":  {Opcode: JumpOpcode, Func: 2, Operands: 1},
	"jsr":  {Opcode: JumpOpcode, Func: 3, Operands: 1},
	"red":  {Opcode: 12, Func: 0, Operands: 1},
	"prn":  {Opcode: 13, Func: 0, Operands: 1},
	"rts":  {Opcode: 14, Func: 0, Operands: 0},
	"stop": {Opcode: 15, Func: 0, Operands: 0},
}

// SourceIsOperand reports whether, for a one-operand mnemonic, the single
// operand fills the source fields rather than the destination fields. Only
// prn does; every other one-operand mnemonic uses the destination fields.
func SourceIsOperand(mnemonic string) bool {
	return mnemonic == "prn"
}

// DirKind identifies a dot-directive.
type DirKind uint8

const (
	DirData DirKind = iota
	DirString
	DirEntry
	DirExtern
)

// Directives maps each recognized directive word (without its leading dot)
// to its DirKind.
var Directives = map[string]DirKind{
	"data":   DirData,
	"string": DirString,
	"entry":  DirEntry,
	"extern": DirExtern,
}

// ReservedWords are names a macro may never be defined as: the macro
// keywords, the directives, and every mnemonic. Label definitions are not
// checked against this set.
func ReservedWords() map[string]bool {
	reserved := map[string]bool{
		"mcro":    true,
		"mcroend": true,
	}

	for name := range Directives {
		reserved["."+name] = true
	}

	for name := range Mnemonics {
		reserved[name] = true
	}

	return reserved
}
