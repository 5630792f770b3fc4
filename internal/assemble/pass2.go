package assemble

import (
	"fmt"
	"strings"

	"github.com/dkrasner/m24asm/internal/isa"
	"github.com/dkrasner/m24asm/internal/lex"
	"github.com/dkrasner/m24asm/internal/log"
	"github.com/dkrasner/m24asm/internal/operand"
	"github.com/dkrasner/m24asm/internal/srcerr"
	"github.com/dkrasner/m24asm/internal/symtab"
	"github.com/dkrasner/m24asm/internal/word"
)

// Generator runs the second pass: it resolves every label-valued operand
// left unfilled by the first pass, assigns each resolved word its ARE tag,
// records external reference sites, and promotes .entry symbols.
type Generator struct {
	symbols *symtab.Table
	code    *CodeImage
	ic      int
	log     *log.Logger
}

// NewGenerator creates a Generator over the symbol table and code image
// produced by a completed Parser.
func NewGenerator(symbols *symtab.Table, code *CodeImage, logger *log.Logger) *Generator {
	return &Generator{symbols: symbols, code: code, ic: ICStart, log: logger}
}

// Run re-walks the same expanded source the Parser consumed, resolving
// operands in lockstep with the code image the first pass built.
func (g *Generator) Run(lines []string) error {
	for i, line := range lines {
		if lex.IsBlank(line) || lex.IsComment(line) {
			continue
		}

		_, rest := lex.SplitLabel(line)
		tok, _ := lex.FirstToken(rest)

		icBefore := g.ic

		if err := g.processLine(line); err != nil {
			g.log.Error("pass two failed", "line", i+1, "token", tok, "err", err)
			return srcerr.At(i+1, err)
		}

		g.log.Debug("pass two", "line", i+1, "token", tok, "ic", g.ic, "cells", g.ic-icBefore)
	}

	return nil
}

func (g *Generator) processLine(line string) error {
	if lex.IsBlank(line) || lex.IsComment(line) {
		return nil
	}

	_, rest := lex.SplitLabel(line)

	if dirWord, arg, ok := splitDirective(rest); ok {
		kind, ok := isa.Directives[dirWord]
		if !ok {
			return fmt.Errorf("unknown directive %q", "."+dirWord)
		}

		if kind == isa.DirEntry {
			name := strings.TrimSpace(arg)
			if err := g.symbols.PromoteToEntry(name); err != nil {
				return err
			}
		}

		return nil
	}

	return g.processInstruction(rest)
}

func (g *Generator) processInstruction(rest string) error {
	instrStart := g.ic

	cellIdx := g.ic - ICStart

	cell := g.code.At(cellIdx)
	if cell == nil || cell.Instr == nil {
		return fmt.Errorf("no instruction recorded at address %d", g.ic)
	}

	length := cell.Len

	mnemonic, operandsStr := lex.FirstToken(rest)

	tokens := splitOperands(operandsStr)

	next := g.ic + 1

	for _, tok := range tokens {
		o := operand.Classify(tok)

		switch o.Kind {
		case operand.Register, operand.Immediate:
			if o.Kind == operand.Immediate {
				next++
			}

		case operand.Direct:
			sym, ok := g.symbols.Find(o.Label)
			if !ok {
				return fmt.Errorf("%s: undefined label %q", mnemonic, o.Label)
			}

			are := word.Relocatable
			if sym.Kind == symtab.Extern {
				are = word.External
				g.symbols.AppendReference(o.Label, next)
			}

			dw := word.Data{Value: int32(sym.Address), Are: are}
			g.code.Set(next-ICStart, &Cell{Operand: &dw})
			next++

		case operand.Relative:
			sym, ok := g.symbols.FindKind(o.Label, symtab.Code)
			if !ok {
				return fmt.Errorf("%s: undefined code label %q", mnemonic, o.Label)
			}

			dw := word.Data{Value: int32(sym.Address - instrStart), Are: word.Absolute}
			g.code.Set(next-ICStart, &Cell{Operand: &dw})
			next++
		}
	}

	g.ic += length

	return nil
}

// Result bundles everything a completed two-pass run produced.
type Result struct {
	Symbols symtab.Table
	Code    *CodeImage
	Data    []int32
	FinalIC int
	FinalDC int
}

// Options configures a Run.
type Options struct {
	// CodeCapacity bounds the number of code cells available; <= 0 selects
	// DefaultCodeCapacity.
	CodeCapacity int
}

// Run performs both passes over already macro-expanded source lines and
// returns the finished code image, data image, and symbol table.
func Run(lines []string, opts Options, logger *log.Logger) (*Result, error) {
	p := NewParser(logger, opts.CodeCapacity)
	if err := p.Run(lines); err != nil {
		return nil, err
	}

	g := NewGenerator(p.Symbols(), p.Code(), logger)
	if err := g.Run(lines); err != nil {
		return nil, err
	}

	return &Result{
		Symbols: *p.Symbols(),
		Code:    p.Code(),
		Data:    p.Data(),
		FinalIC: p.FinalIC(),
		FinalDC: len(p.Data()),
	}, nil
}
