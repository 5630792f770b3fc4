// Package lex implements the lexical rules shared by the macro preprocessor
// and the two assembly passes: label-name and integer-literal validation,
// and label-prefix extraction.
package lex

import "strings"

// MaxLabelLength is the longest a label name may be.
const MaxLabelLength = 31

// IsLabelName reports whether s is a legal label: non-empty, starting with
// an ASCII letter, followed only by ASCII alphanumerics, no longer than
// MaxLabelLength.
func IsLabelName(s string) bool {
	if s == "" || len(s) > MaxLabelLength {
		return false
	}

	if !isLetter(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}

	return true
}

// IsIntegerLiteral reports whether s is an optional leading sign followed by
// one or more decimal digits.
func IsIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}

	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}

	return true
}

// ReadLabelPrefix returns the text before a ':' that terminates the first
// non-whitespace token of line -- the colon may directly abut the token
// (`LOOP:mov`) or be followed by whitespace (`LOOP: mov`), but it must not
// be preceded by whitespace, and must not appear earlier inside the token.
// It returns "" if the first token is not terminated by ':' at all.
func ReadLabelPrefix(line string) string {
	line = strings.TrimLeft(line, " \t")

	end := -1

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\n':
			return ""
		case ':':
			end = i
		}

		if end != -1 {
			break
		}
	}

	if end <= 0 {
		return ""
	}

	return line[:end]
}

// SplitLabel returns the label prefix of line (see ReadLabelPrefix) and the
// remainder of the line with the label and its terminating ':' removed and
// leading whitespace trimmed. If line has no label prefix, label is "" and
// rest is line with only its own leading whitespace trimmed.
func SplitLabel(line string) (label string, rest string) {
	label = ReadLabelPrefix(line)

	trimmed := strings.TrimLeft(line, " \t")
	if label == "" {
		return "", trimmed
	}

	return label, SkipSpace(trimmed[len(label)+1:])
}

// SkipSpace advances past leading spaces and tabs, returning the rest of s.
func SkipSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

// IsBlank reports whether a line is empty or contains only whitespace. It
// does not check for comments; see IsComment.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsComment reports whether the first non-whitespace character of line is
// ';'.
func IsComment(line string) bool {
	trimmed := SkipSpace(line)
	return len(trimmed) > 0 && trimmed[0] == ';'
}

// FirstToken returns the first whitespace-delimited token of line and the
// remainder of line with surrounding whitespace trimmed; rest is "" when
// nothing but whitespace follows the token.
func FirstToken(line string) (tok string, rest string) {
	line = SkipSpace(line)

	end := len(line)
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' || line[i] == '\t' || line[i] == '\n' {
			end = i
			break
		}
	}

	return line[:end], strings.TrimRight(SkipSpace(line[end:]), " \t\n")
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
