// Package srcerr defines the error type every pass of the assembler
// attaches its failures to, so that the CLI can format
// "Error in <file> line <n>: <message>" uniformly regardless of which pass
// produced the error.
package srcerr

import (
	"errors"
	"fmt"
)

// LineError wraps an error with the source line and, optionally, filename
// it occurred on.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Err)
	}

	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// At wraps err with a line number, leaving the filename blank; callers that
// know the filename (the CLI, which owns *os.File) can set it afterward.
func At(line int, err error) error {
	if err == nil {
		return nil
	}

	return &LineError{Line: line, Err: err}
}

// WithFile returns a copy of err with File set, if err is (or wraps) a
// *LineError; otherwise err is returned unchanged.
func WithFile(file string, err error) error {
	var le *LineError

	if err == nil {
		return nil
	}

	if !errors.As(err, &le) {
		return err
	}

	return &LineError{File: file, Line: le.Line, Err: le.Err}
}
