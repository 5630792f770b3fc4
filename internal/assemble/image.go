// Package assemble implements the two-pass translation of expanded
// assembly source into a populated code image, data image, and symbol
// table: Parser runs the first pass, Generator the second.
package assemble

import (
	"errors"

	"github.com/dkrasner/m24asm/internal/word"
)

// ICStart is the address assigned to the first code cell.
const ICStart = 100

// DefaultCodeCapacity is the code image's default cell capacity.
const DefaultCodeCapacity = 1200

// ErrCodeImageOverflow is returned when an instruction would need more
// cells than the code image has room for.
var ErrCodeImageOverflow = errors.New("code image overflow")

// Cell is one code-image slot: either an instruction word or a resolved/
// unresolved operand word. Len is only meaningful on the first cell of an
// instruction group and records how many consecutive cells -- instruction
// plus extra words -- belong to it.
type Cell struct {
	Instr   *word.Instruction
	Operand *word.Data
	Len     int
}

// CodeImage is the dense, index-addressable sequence of code cells built by
// the first pass and filled in by the second. Index i holds the cell at
// address ICStart+i. A reserved-but-unset index holds a nil *Cell until
// Set is called.
type CodeImage struct {
	cells    []*Cell
	capacity int
}

// NewCodeImage creates an image with the given capacity, or
// DefaultCodeCapacity if capacity <= 0.
func NewCodeImage(capacity int) *CodeImage {
	if capacity <= 0 {
		capacity = DefaultCodeCapacity
	}

	return &CodeImage{capacity: capacity}
}

// Reserve appends n empty cells and returns the index of the first. It
// fails with ErrCodeImageOverflow if doing so would exceed capacity.
func (ci *CodeImage) Reserve(n int) (int, error) {
	if len(ci.cells)+n > ci.capacity {
		return 0, ErrCodeImageOverflow
	}

	start := len(ci.cells)

	for i := 0; i < n; i++ {
		ci.cells = append(ci.cells, nil)
	}

	return start, nil
}

// Set stores c at index i.
func (ci *CodeImage) Set(i int, c *Cell) {
	ci.cells[i] = c
}

// At returns the cell at index i, or nil if it has not been filled.
func (ci *CodeImage) At(i int) *Cell {
	return ci.cells[i]
}

// Len returns the number of cells allocated so far.
func (ci *CodeImage) Len() int {
	return len(ci.cells)
}
