// Package object serializes a finished assembly into the three flat-text
// artifacts a job produces: the object image (.ob), the entry-symbol table
// (.ent), and the external-reference table (.ext).
package object

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dkrasner/m24asm/internal/assemble"
	"github.com/dkrasner/m24asm/internal/symtab"
	"github.com/dkrasner/m24asm/internal/word"
)

// WriteOb writes the object image: a header line of `<code_size>
// <data_size>`, then one `<7-digit address> <6-digit hex word>` line per
// code cell, then one per data cell.
func WriteOb(w io.Writer, res *assemble.Result) error {
	bw := bufio.NewWriter(w)

	codeSize := res.FinalIC - assemble.ICStart
	dataSize := res.FinalDC

	if _, err := fmt.Fprintf(bw, "%d %d\n", codeSize, dataSize); err != nil {
		return err
	}

	for i := 0; i < res.Code.Len(); i++ {
		addr := assemble.ICStart + i

		value, err := cellValue(res.Code.At(i), addr)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(bw, "%07d %06x\n", addr, value); err != nil {
			return err
		}
	}

	for i, v := range res.Data {
		addr := res.FinalIC + i
		if _, err := fmt.Fprintf(bw, "%07d %06x\n", addr, word.EncodeRaw24(v)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func cellValue(cell *assemble.Cell, addr int) (uint32, error) {
	switch {
	case cell == nil:
		return 0, fmt.Errorf("unfilled code cell at address %d", addr)
	case cell.Instr != nil:
		return cell.Instr.Encode24(), nil
	case cell.Operand != nil:
		return cell.Operand.Encode24(), nil
	default:
		return 0, fmt.Errorf("unfilled code cell at address %d", addr)
	}
}

// WriteEnt writes one `<name> <7-digit address>` line per Entry symbol, in
// insertion order. It reports whether anything was written; callers should
// discard the artifact (and the file it was bound to) when wrote is false.
func WriteEnt(w io.Writer, res *assemble.Result) (wrote bool, err error) {
	return writeSymbols(w, res, func(e symtab.SymbolEntry) bool {
		return e.Kind == symtab.Entry
	})
}

// WriteExt writes one `<name> <7-digit address>` line per external
// reference site -- an Extern entry with a non-zero address -- in insertion
// order. It reports whether anything was written.
func WriteExt(w io.Writer, res *assemble.Result) (wrote bool, err error) {
	return writeSymbols(w, res, func(e symtab.SymbolEntry) bool {
		return e.Kind == symtab.Extern && e.Address != 0
	})
}

func writeSymbols(w io.Writer, res *assemble.Result, match func(symtab.SymbolEntry) bool) (bool, error) {
	bw := bufio.NewWriter(w)
	wrote := false

	for _, e := range res.Symbols.Entries() {
		if !match(e) {
			continue
		}

		wrote = true

		if _, err := fmt.Fprintf(bw, "%s %07d\n", e.Name, e.Address); err != nil {
			return wrote, err
		}
	}

	if err := bw.Flush(); err != nil {
		return wrote, err
	}

	return wrote, nil
}
