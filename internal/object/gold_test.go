package object_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkrasner/m24asm/internal/assemble"
	"github.com/dkrasner/m24asm/internal/log"
	"github.com/dkrasner/m24asm/internal/object"
)

// gold_test.go holds end-to-end tests: known assembly source, known object-
// image output, compared byte for byte.

type assemblerHarness struct {
	*testing.T
}

func (h assemblerHarness) readSource(filename string) []string {
	h.Helper()

	text := strings.TrimRight(string(h.readFixture(filename)), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}

func (h assemblerHarness) readFixture(filename string) []byte {
	h.Helper()

	bs, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		h.Fatalf("read %s: %s", filename, err)
	}

	return bs
}

func TestGoldenObjectImage(tt *testing.T) {
	h := assemblerHarness{tt}

	lines := h.readSource("prog1.as")

	res, err := assemble.Run(lines, assemble.Options{}, log.NewFormattedLogger(io.Discard))
	if err != nil {
		h.Fatalf("assemble.Run() error = %s", err)
	}

	var ob bytes.Buffer
	if err := object.WriteOb(&ob, res); err != nil {
		h.Fatalf("WriteOb() error = %s", err)
	}

	if want := h.readFixture("prog1.ob"); !bytes.Equal(ob.Bytes(), want) {
		h.Errorf("object image mismatch:\n got:\n%s\nwant:\n%s", ob.String(), want)
	}

	var ent bytes.Buffer

	wroteEnt, err := object.WriteEnt(&ent, res)
	if err != nil {
		h.Fatalf("WriteEnt() error = %s", err)
	}

	if !wroteEnt {
		h.Fatal("expected .ent output, got none")
	}

	if want := h.readFixture("prog1.ent"); !bytes.Equal(ent.Bytes(), want) {
		h.Errorf(".ent mismatch:\n got:\n%s\nwant:\n%s", ent.String(), want)
	}

	var ext bytes.Buffer

	wroteExt, err := object.WriteExt(&ext, res)
	if err != nil {
		h.Fatalf("WriteExt() error = %s", err)
	}

	if !wroteExt {
		h.Fatal("expected .ext output, got none")
	}

	if want := h.readFixture("prog1.ext"); !bytes.Equal(ext.Bytes(), want) {
		h.Errorf(".ext mismatch:\n got:\n%s\nwant:\n%s", ext.String(), want)
	}
}
