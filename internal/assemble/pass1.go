package assemble

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkrasner/m24asm/internal/isa"
	"github.com/dkrasner/m24asm/internal/lex"
	"github.com/dkrasner/m24asm/internal/log"
	"github.com/dkrasner/m24asm/internal/operand"
	"github.com/dkrasner/m24asm/internal/srcerr"
	"github.com/dkrasner/m24asm/internal/symtab"
	"github.com/dkrasner/m24asm/internal/word"
)

// Parser runs the first pass over expanded source: it builds the code and
// data images, populates the symbol table with Code and Data declarations,
// and records .extern declarations. Labels are resolved against it, and
// instruction operands that name a label are left unfilled for the second
// pass.
type Parser struct {
	code    *CodeImage
	data    []int32
	symbols symtab.Table
	ic      int
	dc      int
	log     *log.Logger
}

// NewParser creates a Parser with a code image of the given capacity (or
// DefaultCodeCapacity if capacity <= 0).
func NewParser(logger *log.Logger, codeCapacity int) *Parser {
	return &Parser{
		code: NewCodeImage(codeCapacity),
		ic:   ICStart,
		log:  logger,
	}
}

// Run processes every line of the expanded source, then rebases every Data
// symbol's address by the final IC so that data addresses are absolute.
func (p *Parser) Run(lines []string) error {
	for i, line := range lines {
		if lex.IsBlank(line) || lex.IsComment(line) {
			continue
		}

		_, rest := lex.SplitLabel(line)
		tok, _ := lex.FirstToken(rest)

		icBefore, dcBefore := p.ic, p.dc

		if err := p.parseLine(line); err != nil {
			p.log.Error("pass one failed", "line", i+1, "token", tok, "err", err)
			return srcerr.At(i+1, err)
		}

		p.log.Debug("pass one", "line", i+1, "token", tok, "ic", p.ic, "dc", p.dc,
			"cells", (p.ic-icBefore)+(p.dc-dcBefore))
	}

	p.symbols.RebaseData(p.ic)

	return nil
}

// Symbols returns the (pass-one) symbol table.
func (p *Parser) Symbols() *symtab.Table { return &p.symbols }

// Code returns the code image built so far.
func (p *Parser) Code() *CodeImage { return p.code }

// Data returns the data image built so far.
func (p *Parser) Data() []int32 { return p.data }

// FinalIC returns the IC reached after the last instruction, i.e. the
// absolute base address at which the data image is placed.
func (p *Parser) FinalIC() int { return p.ic }

func (p *Parser) parseLine(line string) error {
	if lex.IsBlank(line) || lex.IsComment(line) {
		return nil
	}

	label, rest := lex.SplitLabel(line)

	if label != "" {
		if !lex.IsLabelName(label) {
			return fmt.Errorf("invalid label name %q", label)
		}

		if _, ok := p.symbols.Find(label); ok {
			return fmt.Errorf("duplicate label %q", label)
		}
	}

	if dirWord, arg, ok := splitDirective(rest); ok {
		kind, ok := isa.Directives[dirWord]
		if !ok {
			return fmt.Errorf("unknown directive %q", "."+dirWord)
		}

		return p.parseDirective(label, kind, arg)
	}

	return p.parseInstruction(label, rest)
}

// splitDirective reports whether rest begins with a dot-directive and, if
// so, splits it into the directive word (without the dot) and its argument
// text.
func splitDirective(rest string) (dirWord, arg string, ok bool) {
	if !strings.HasPrefix(rest, ".") {
		return "", "", false
	}

	dirWord, arg = lex.FirstToken(rest[1:])

	return dirWord, arg, true
}

func (p *Parser) parseDirective(label string, kind isa.DirKind, arg string) error {
	switch kind {
	case isa.DirData:
		if label != "" {
			if err := p.symbols.Insert(label, p.dc, symtab.Data); err != nil {
				return err
			}
		}

		return p.parseDataList(arg)

	case isa.DirString:
		if label != "" {
			if err := p.symbols.Insert(label, p.dc, symtab.Data); err != nil {
				return err
			}
		}

		return p.parseString(arg)

	case isa.DirExtern:
		name := strings.TrimSpace(arg)
		if !lex.IsLabelName(name) {
			return fmt.Errorf("invalid extern operand %q", name)
		}

		return p.symbols.Insert(name, 0, symtab.Extern)

	case isa.DirEntry:
		if label != "" {
			return errors.New("label prefix is not allowed on .entry")
		}

		name := strings.TrimSpace(arg)
		if !lex.IsLabelName(name) {
			return fmt.Errorf("invalid entry operand %q", name)
		}

		return nil

	default:
		return fmt.Errorf("unknown directive kind %v", kind)
	}
}

func (p *Parser) parseDataList(arg string) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return errors.New("empty .data operand list")
	}

	parts := strings.Split(arg, ",")

	for i, raw := range parts {
		tok := strings.TrimSpace(raw)

		if tok == "" {
			if i == len(parts)-1 {
				return errors.New("trailing comma in .data operand list")
			}

			return errors.New("consecutive commas in .data operand list")
		}

		if !lex.IsIntegerLiteral(tok) {
			return fmt.Errorf("invalid .data value %q", tok)
		}

		v, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("invalid .data value %q", tok)
		}

		p.data = append(p.data, int32(v))
		p.dc++
	}

	return nil
}

func (p *Parser) parseString(arg string) error {
	arg = strings.TrimSpace(arg)

	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		return fmt.Errorf("malformed .string operand %q", arg)
	}

	content := arg[1 : len(arg)-1]

	for _, r := range content {
		p.data = append(p.data, int32(r))
		p.dc++
	}

	p.data = append(p.data, 0)
	p.dc++

	return nil
}

func (p *Parser) parseInstruction(label, rest string) error {
	icStart := p.ic

	if label != "" {
		if err := p.symbols.Insert(label, icStart, symtab.Code); err != nil {
			return err
		}
	}

	mnemonic, operandsStr := lex.FirstToken(rest)

	op, ok := isa.Mnemonics[mnemonic]
	if !ok {
		return fmt.Errorf("unknown mnemonic %q", mnemonic)
	}

	tokens := splitOperands(operandsStr)
	if len(tokens) != op.Operands {
		return fmt.Errorf("%s: expected %d operand(s), got %d", mnemonic, op.Operands, len(tokens))
	}

	classified := make([]operand.Operand, len(tokens))

	for i, tok := range tokens {
		o := operand.Classify(tok)

		switch o.Kind {
		case operand.InvalidAddress:
			return fmt.Errorf("%s: invalid register operand %q", mnemonic, tok)
		case operand.NoAddressing:
			return fmt.Errorf("%s: malformed operand %q", mnemonic, tok)
		case operand.Relative:
			if op.Opcode != isa.JumpOpcode {
				return fmt.Errorf("%s: relative addressing is only legal on jump instructions", mnemonic)
			}
		}

		classified[i] = o
	}

	var src, dest *operand.Operand

	switch op.Operands {
	case 1:
		if isa.SourceIsOperand(mnemonic) {
			src = &classified[0]
		} else {
			dest = &classified[0]
		}
	case 2:
		src = &classified[0]
		dest = &classified[1]
	}

	instr := word.Instruction{Opcode: op.Opcode, Func: op.Func, Are: word.Absolute}

	if src != nil {
		instr.SrcMode = modeOf(src.Kind)
		if src.Kind == operand.Register {
			instr.SrcReg = src.Reg
		}
	}

	if dest != nil {
		instr.DestMode = modeOf(dest.Kind)
		if dest.Kind == operand.Register {
			instr.DestReg = dest.Reg
		}
	}

	instrIdx, err := p.code.Reserve(1)
	if err != nil {
		return err
	}

	p.code.Set(instrIdx, &Cell{Instr: &instr})
	p.ic++

	for _, o := range classified {
		switch o.Kind {
		case operand.Register:
			// Packed into the instruction word; no extra cell.
		case operand.Immediate:
			idx, err := p.code.Reserve(1)
			if err != nil {
				return err
			}

			dw := word.Data{Value: o.Literal, Are: word.Absolute}
			p.code.Set(idx, &Cell{Operand: &dw})
			p.ic++
		case operand.Direct, operand.Relative:
			if _, err := p.code.Reserve(1); err != nil {
				return err
			}

			p.ic++
		}
	}

	p.code.At(instrIdx).Len = p.ic - icStart

	return nil
}

// splitOperands splits a trimmed, comma-separated operand list. An empty
// string yields zero tokens.
func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

func modeOf(k operand.Kind) word.Mode {
	switch k {
	case operand.Immediate:
		return word.ModeImmediate
	case operand.Direct:
		return word.ModeDirect
	case operand.Relative:
		return word.ModeRelative
	case operand.Register:
		return word.ModeRegister
	default:
		return word.ModeImmediate
	}
}
