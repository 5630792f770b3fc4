package cmd_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkrasner/m24asm/internal/cli/cmd"
	"github.com/dkrasner/m24asm/internal/log"
)

type jobHarness struct {
	*testing.T
}

func (h jobHarness) writeSource(dir, basename, body string) string {
	h.Helper()

	name := filepath.Join(dir, basename+".as")
	if err := os.WriteFile(name, []byte(body), 0o600); err != nil {
		h.Fatalf("write %s: %s", name, err)
	}

	return name
}

func (h jobHarness) readArtifact(dir, basename, ext string) (string, bool) {
	h.Helper()

	name := filepath.Join(dir, basename+ext)

	bs, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return "", false
	}

	if err != nil {
		h.Fatalf("read %s: %s", name, err)
	}

	return string(bs), true
}

func TestAssemblerRunSucceeds(t *testing.T) {
	h := jobHarness{t}
	dir := t.TempDir()

	h.writeSource(dir, "prog", "mov #5, r1\nstop\n")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	defer os.Chdir(wd)

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	a := cmd.Assembler()

	var out bytes.Buffer

	logger := log.NewFormattedLogger(io.Discard)

	if code := a.Run(nil, []string{"prog"}, &out, logger); code != 0 {
		t.Fatalf("Run() = %d, want 0; output: %s", code, out.String())
	}

	am, ok := h.readArtifact(dir, "prog", ".am")
	if !ok {
		t.Fatal(".am was not written")
	}

	if strings.TrimSpace(am) != "mov #5, r1\nstop" {
		t.Errorf(".am = %q", am)
	}

	ob, ok := h.readArtifact(dir, "prog", ".ob")
	if !ok {
		t.Fatal(".ob was not written")
	}

	wantHeader := "3 0\n"
	if !strings.HasPrefix(ob, wantHeader) {
		t.Errorf(".ob header = %q, want prefix %q", ob, wantHeader)
	}

	if _, ok := h.readArtifact(dir, "prog", ".ent"); ok {
		t.Error(".ent was written, want omitted (no entry symbols)")
	}

	if _, ok := h.readArtifact(dir, "prog", ".ext"); ok {
		t.Error(".ext was written, want omitted (no extern references)")
	}
}

func TestAssemblerRunReportsLineError(t *testing.T) {
	h := jobHarness{t}
	dir := t.TempDir()

	h.writeSource(dir, "bad", "mov r1\nstop\n")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	defer os.Chdir(wd)

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	a := cmd.Assembler()

	var out bytes.Buffer

	logger := log.NewFormattedLogger(io.Discard)

	if code := a.Run(nil, []string{"bad"}, &out, logger); code != 1 {
		t.Fatalf("Run() = %d, want 1", code)
	}

	if got := out.String(); !strings.HasPrefix(got, "Error in bad.as line 1:") {
		t.Errorf("output = %q, want prefix %q", got, "Error in bad.as line 1:")
	}

	if _, ok := h.readArtifact(dir, "bad", ".ob"); ok {
		t.Error(".ob was written for a failed job")
	}
}

func TestAssemblerRunMultipleBasenames(t *testing.T) {
	h := jobHarness{t}
	dir := t.TempDir()

	h.writeSource(dir, "one", "stop\n")
	h.writeSource(dir, "two", "stop\n")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	defer os.Chdir(wd)

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	a := cmd.Assembler()

	var out bytes.Buffer

	logger := log.NewFormattedLogger(io.Discard)

	if code := a.Run(nil, []string{"one", "two"}, &out, logger); code != 0 {
		t.Fatalf("Run() = %d, want 0; output: %s", code, out.String())
	}

	if _, ok := h.readArtifact(dir, "one", ".ob"); !ok {
		t.Error("one.ob was not written")
	}

	if _, ok := h.readArtifact(dir, "two", ".ob"); !ok {
		t.Error("two.ob was not written")
	}
}
