package gloss

import (
	"strings"
	"unicode/utf8"
)

// Opening and closing brackets of the bracketed footnote form.
const (
	openBrackets  = "〔﹝"
	closeBrackets = "〕﹞"
)

// ParseBracketed splits a footnote of the form 〔headword〕explanation.
// ok is false when the text does not start with an opening bracket, has no
// closing bracket or encloses an empty headword.
func ParseBracketed(raw string) (headword, detail string, ok bool) {
	raw = strings.TrimSpace(raw)
	first, size := utf8.DecodeRuneInString(raw)
	if !strings.ContainsRune(openBrackets, first) {
		return "", "", false
	}

	rest := raw[size:]
	closeAt := strings.IndexAny(rest, closeBrackets)
	if closeAt < 0 {
		return "", "", false
	}

	headword = strings.TrimSpace(rest[:closeAt])
	if headword == "" {
		return "", "", false
	}

	_, closeSize := utf8.DecodeRuneInString(rest[closeAt:])
	detail = strings.TrimSpace(rest[closeAt+closeSize:])
	return headword, detail, true
}
