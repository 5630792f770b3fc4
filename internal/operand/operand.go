// Package operand classifies an operand token into an addressing mode.
package operand

import (
	"strconv"
	"strings"

	"github.com/dkrasner/m24asm/internal/lex"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type Kind -output kind_string.go

// Kind identifies the addressing mode an operand token was classified as,
// or one of the two error states produced instead of a mode.
type Kind uint8

const (
	// Immediate is a `#`-prefixed integer literal operand.
	Immediate Kind = iota
	// Direct is a plain label operand.
	Direct
	// Relative is a `&`-prefixed label operand, legal only on jump-group
	// opcodes.
	Relative
	// Register is an `r0`..`r7` operand.
	Register
	// NoAddressing means the token is syntactically malformed; an error if
	// the opcode required an operand here.
	NoAddressing
	// InvalidAddress means the token looks like a register but is out of
	// range, e.g. `r8` or `ra`. Always a hard error.
	InvalidAddress
)

// Operand is the result of classifying one operand token.
type Operand struct {
	Kind    Kind
	Literal int32  // set when Kind == Immediate
	Label   string // set when Kind == Direct or Relative
	Reg     uint8  // set when Kind == Register
}

// Classify inspects tok and returns its addressing mode, or one of the
// error Kinds. Classify has no side effects; callers are responsible for
// reporting diagnostics.
func Classify(tok string) Operand {
	switch {
	case strings.HasPrefix(tok, "#"):
		rest := tok[1:]
		if lex.IsIntegerLiteral(rest) {
			v, _ := strconv.Atoi(rest)
			return Operand{Kind: Immediate, Literal: int32(v)}
		}

		return Operand{Kind: NoAddressing}

	case strings.HasPrefix(tok, "&"):
		rest := tok[1:]
		if lex.IsLabelName(rest) {
			return Operand{Kind: Relative, Label: rest}
		}

		return Operand{Kind: NoAddressing}

	case isRegisterForm(tok):
		return Operand{Kind: Register, Reg: tok[1] - '0'}

	case strings.HasPrefix(tok, "r"):
		return Operand{Kind: InvalidAddress}

	case lex.IsLabelName(tok):
		return Operand{Kind: Direct, Label: tok}

	default:
		return Operand{Kind: NoAddressing}
	}
}

func isRegisterForm(tok string) bool {
	return len(tok) == 2 && tok[0] == 'r' && tok[1] >= '0' && tok[1] <= '7'
}
