package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// NormalizeQuery prepares a user query for lookup:
//   - trims leading/trailing whitespace
//   - drops every inner whitespace rune
//
// Classical Chinese has no word separators, so spaces never carry meaning.
func NormalizeQuery(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizePunctuation replaces ASCII punctuation with its full-width form so
// that rune offsets computed against corpus text stay consistent regardless of
// how the source was encoded. An ASCII period becomes the ideographic full stop.
func NormalizePunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '.':
			b.WriteRune('。')
		case r < unicode.MaxASCII && unicode.IsPunct(r):
			b.WriteString(width.Widen.String(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	// （…） asides such as variant readings. Not nested.
	asidePattern = regexp.MustCompile(`（[^（）]*）`)
	// ① … ⑳ and ⑴ … ⒇.
	circledMarkerPattern = regexp.MustCompile(`[\x{2460}-\x{2487}]`)
	// "1．", "1。" or "1、" at the start of a line.
	listMarkerPattern = regexp.MustCompile(`(?m)^\s*[0-9０-９]+[．。、]`)
)

// NormalizeRemark cleans a dataset remark before gloss parsing: punctuation
// is widened, parenthetical asides and numbered-list markers are removed.
func NormalizeRemark(remark string) string {
	remark = NormalizePunctuation(remark)
	remark = asidePattern.ReplaceAllString(remark, "")
	remark = circledMarkerPattern.ReplaceAllString(remark, "")
	remark = listMarkerPattern.ReplaceAllString(remark, "")
	return remark
}
