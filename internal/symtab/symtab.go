// Package symtab implements the assembler's symbol table: an insertion-
// ordered, append-only collection of (name, address, kind) entries.
//
// Unlike a plain map, the table may hold more than one entry for the same
// name: external-symbol reference sites (recorded during the second pass)
// share a name with their declaration but carry a distinct, non-zero
// address. Lookups by name alone return the first matching entry, which is
// always the declaration.
package symtab

import (
	"errors"
	"fmt"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type Kind -output kind_string.go

// Kind is the kind of a symbol table entry.
type Kind uint8

const (
	// Code is a label defined on an instruction line.
	Code Kind = iota
	// Data is a label defined on a .data or .string directive.
	Data
	// Entry is a Code or Data symbol promoted by .entry.
	Entry
	// Extern is a symbol declared by .extern, or a reference site recorded
	// against one during the second pass.
	Extern
)

// SymbolEntry is one row of the symbol table.
type SymbolEntry struct {
	Name    string
	Address int
	Kind    Kind
}

var (
	// ErrDuplicateName is returned by Insert when a definition with the same
	// name already exists.
	ErrDuplicateName = errors.New("duplicate symbol name")

	// ErrUndefined is returned by PromoteToEntry when no Code or Data symbol
	// with the given name exists.
	ErrUndefined = errors.New("undefined symbol")

	// ErrAlreadyExtern is returned by PromoteToEntry when the only matching
	// definition is an Extern declaration.
	ErrAlreadyExtern = errors.New("symbol already declared extern")
)

// Table is the symbol table. The zero value is an empty table ready to use.
type Table []SymbolEntry

// Insert adds a new definition. It fails if a definition (Code, Data, or
// Extern) with the same name is already present.
func (t *Table) Insert(name string, addr int, kind Kind) error {
	if _, ok := t.Find(name); ok {
		return fmt.Errorf("insert %q: %w", name, ErrDuplicateName)
	}

	*t = append(*t, SymbolEntry{Name: name, Address: addr, Kind: kind})

	return nil
}

// Find returns the first entry with the given name, regardless of kind.
func (t Table) Find(name string) (SymbolEntry, bool) {
	for _, e := range t {
		if e.Name == name {
			return e, true
		}
	}

	return SymbolEntry{}, false
}

// FindKind returns the first entry matching both name and kind.
func (t Table) FindKind(name string, kind Kind) (SymbolEntry, bool) {
	for _, e := range t {
		if e.Name == name && e.Kind == kind {
			return e, true
		}
	}

	return SymbolEntry{}, false
}

// AppendReference records a use of an external symbol at addr. It is
// appended even when a declaration with the same name already exists; the
// reference site is distinguished from the declaration by having a non-zero
// address.
func (t *Table) AppendReference(name string, addr int) {
	*t = append(*t, SymbolEntry{Name: name, Address: addr, Kind: Extern})
}

// PromoteToEntry finds the first Code or Data entry named name and changes
// its kind to Entry. It is idempotent if the entry is already Entry. It
// fails with ErrAlreadyExtern if only an Extern declaration exists, or
// ErrUndefined if the name is not defined at all.
func (t Table) PromoteToEntry(name string) error {
	for i := range t {
		switch t[i].Kind {
		case Code, Data, Entry:
			if t[i].Name == name {
				t[i].Kind = Entry
				return nil
			}
		}
	}

	for i := range t {
		if t[i].Name == name && t[i].Kind == Extern {
			return fmt.Errorf("promote %q: %w", name, ErrAlreadyExtern)
		}
	}

	return fmt.Errorf("promote %q: %w", name, ErrUndefined)
}

// RebaseData adds offset to the address of every Data-kind symbol. Called
// once, at the boundary between the first and second pass, to convert
// data-image offsets into absolute addresses.
func (t Table) RebaseData(offset int) {
	for i := range t {
		if t[i].Kind == Data {
			t[i].Address += offset
		}
	}
}

// Entries returns the table's entries in insertion order. The caller must
// not mutate the returned slice's contents through any alias that outlives
// the table's own lifetime expectations (kinds and addresses are still
// mutated in place by PromoteToEntry and RebaseData on the original table).
func (t Table) Entries() []SymbolEntry {
	return t
}

// Len returns the number of entries, including reference-site duplicates.
func (t Table) Len() int {
	return len(t)
}
