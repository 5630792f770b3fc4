package lex_test

import (
	"testing"

	"github.com/dkrasner/m24asm/internal/lex"
)

func TestIsLabelName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"A", true},
		{"label", true},
		{"Label1", true},
		{"1label", false},
		{"label_x", false},
		{"label x", false},
		{"", false},
	}

	// 31 chars is the max; 32 must fail.
	ok31 := "a23456789012345678901234567890a"
	if len(ok31) != 31 {
		t.Fatalf("fixture length = %d, want 31", len(ok31))
	}

	cases = append(cases,
		struct {
			in   string
			want bool
		}{ok31, true},
		struct {
			in   string
			want bool
		}{ok31 + "x", false},
	)

	for _, c := range cases {
		if got := lex.IsLabelName(c.in); got != c.want {
			t.Errorf("IsLabelName(%q) = %t, want %t", c.in, got, c.want)
		}
	}
}

func TestIsIntegerLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", true},
		{"123", true},
		{"+5", true},
		{"-5", true},
		{"+", false},
		{"-", false},
		{"5-", false},
		{"5.0", false},
		{"+-5", false},
	}

	for _, c := range cases {
		if got := lex.IsIntegerLiteral(c.in); got != c.want {
			t.Errorf("IsIntegerLiteral(%q) = %t, want %t", c.in, got, c.want)
		}
	}
}

func TestReadLabelPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"LOOP: mov r1, r2", "LOOP"},
		{"LOOP:mov r1, r2", "LOOP"},
		{"  LOOP: stop", "LOOP"},
		{"mov r1, r2", ""},
		{"LOOP:X: stop", "LOOP"},
		{"", ""},
	}

	for _, c := range cases {
		if got := lex.ReadLabelPrefix(c.in); got != c.want {
			t.Errorf("ReadLabelPrefix(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitLabel(t *testing.T) {
	cases := []struct {
		in        string
		wantLabel string
		wantRest  string
	}{
		{"LOOP: mov r1, r2", "LOOP", "mov r1, r2"},
		{"LOOP:mov r1, r2", "LOOP", "mov r1, r2"},
		{"mov r1, r2", "", "mov r1, r2"},
		{"A: .data 1, 2", "A", ".data 1, 2"},
	}

	for _, c := range cases {
		label, rest := lex.SplitLabel(c.in)
		if label != c.wantLabel || rest != c.wantRest {
			t.Errorf("SplitLabel(%q) = %q, %q; want %q, %q", c.in, label, rest, c.wantLabel, c.wantRest)
		}
	}
}

func TestFirstToken(t *testing.T) {
	tok, rest := lex.FirstToken("  mcro FOO  ")
	if tok != "mcro" || rest != "FOO" {
		t.Errorf("FirstToken = %q, %q", tok, rest)
	}
}

func TestIsCommentBlank(t *testing.T) {
	if !lex.IsBlank("   \t") {
		t.Error("expected blank line to be blank")
	}
	if !lex.IsComment("  ; a comment") {
		t.Error("expected comment line to be recognized")
	}
	if lex.IsComment("mov r1, r2 ; trailing") {
		t.Error("did not expect mid-line comment to count as a comment line")
	}
}
