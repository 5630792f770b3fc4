// Package word implements the machine's 24-bit word formats: instruction
// words, operand/data words, and the ARE relocation tag shared by both.
//
// Bit layout of an instruction word (bit 23 most significant):
//
//	23..18  opcode   (6 bits)
//	17..16  src mode (2 bits)
//	15..13  src reg  (3 bits)
//	12..11  dest mode(2 bits)
//	10..8   dest reg (3 bits)
//	7..3    func     (5 bits)
//	2..0    are      (3 bits)
//
// Bit layout of a data word (operand extra word):
//
//	23..3   value (21-bit two's complement)
//	2..0    are
package word

//go:generate go run golang.org/x/tools/cmd/stringer -type ARE -output are_string.go

// ARE is the 3-bit relocation tag carried by every instruction and operand
// word. Exactly one bit is set on any resolved word.
type ARE uint8

const (
	Absolute    ARE = 4
	Relocatable ARE = 2
	External    ARE = 1
)

// Mode is the 2-bit addressing-mode tag carried in an instruction word's
// src/dest mode fields.
type Mode uint8

const (
	ModeImmediate Mode = 0
	ModeDirect    Mode = 1
	ModeRelative  Mode = 2
	ModeRegister  Mode = 3
)

// Mask24 is the set of bits a 24-bit word may occupy.
const Mask24 = 0x00FFFFFF

// Instruction is an instruction word, always created with ARE set to
// Absolute; the second pass never changes an instruction word's ARE.
type Instruction struct {
	Opcode   uint8 // 6 bits
	SrcMode  Mode
	SrcReg   uint8 // 3 bits
	DestMode Mode
	DestReg  uint8 // 3 bits
	Func     uint8 // 5 bits
	Are      ARE
}

// Encode24 packs the instruction into its 24-bit representation.
func (w Instruction) Encode24() uint32 {
	var v uint32

	v |= uint32(w.Opcode&0x3F) << 18
	v |= uint32(w.SrcMode&0x3) << 16
	v |= uint32(w.SrcReg&0x7) << 13
	v |= uint32(w.DestMode&0x3) << 11
	v |= uint32(w.DestReg&0x7) << 8
	v |= uint32(w.Func&0x1F) << 3
	v |= uint32(w.Are & 0x7)

	return v & Mask24
}

// Data is an operand extra word: an immediate, or a resolved direct/relative
// reference.
type Data struct {
	Value int32 // 21-bit two's complement
	Are   ARE
}

// Encode24 packs the data word into its 24-bit representation: the value
// shifted up by 3 bits with the ARE tag in the low 3 bits.
func (w Data) Encode24() uint32 {
	v := uint32(w.Value) & 0x1FFFFF
	v <<= 3
	v |= uint32(w.Are & 0x7)

	return v & Mask24
}

// EncodeRaw24 masks value to 24 bits with no shift and no ARE tag. This is
// the encoding used for .data and .string values in the data image -- they
// occupy the full word width directly, unlike operand data words.
func EncodeRaw24(value int32) uint32 {
	return uint32(value) & Mask24
}
