package gloss

import "strings"

const remarkSeparator = '：'

// Two-rune prefixes whose colon introduces a sense comparison rather than a gloss.
var senseMarkers = [][2]rune{
	{'古', '义'},
	{'今', '义'},
}

// RemarkGloss is one gloss found in a free-text remark.
type RemarkGloss struct {
	Headword string
	Detail   string
}

// ParseRemark splits a normalized remark of the colon form into glosses.
//
// The headword of a gloss is the text between the last strong terminator
// (or line start) and a separator colon. Its detail runs from the colon to
// the start of the next headword or the end of the line. Colons inside or
// right after a 《》 book title and colons after 古义/今义 are not separators.
func ParseRemark(remark string) []RemarkGloss {
	text := []rune(remark)

	type bounds struct{ head, colon int }
	var found []bounds

	depth := 0
	head := 0
	lastPause := -1
	for i, r := range text {
		switch {
		case r == '《':
			depth++
		case r == '》':
			if depth > 0 {
				depth--
			}
		case r == '\n' || isStrongTerminator(r):
			head = i + 1
		case isPause(r):
			lastPause = i
		case r == remarkSeparator && depth == 0 && !afterBookTitle(text, i) && !afterSenseMarker(text, i):
			h := head
			// Two glosses joined by a comma: the previous detail ends at it.
			if len(found) > 0 && head == found[len(found)-1].colon+1 && lastPause >= head {
				h = lastPause + 1
			}
			found = append(found, bounds{head: h, colon: i})
			head = i + 1
		}
	}

	glosses := make([]RemarkGloss, 0, len(found))
	for k, b := range found {
		end := len(text)
		if k+1 < len(found) {
			end = found[k+1].head
		}
		if nl := indexRune(text[b.colon+1:end], '\n'); nl >= 0 {
			end = b.colon + 1 + nl
		}

		headword := trimHeadword(string(text[b.head:b.colon]))
		detail := strings.TrimSpace(string(text[b.colon+1 : end]))
		if headword == "" || detail == "" {
			continue
		}
		glosses = append(glosses, RemarkGloss{Headword: headword, Detail: detail})
	}
	return glosses
}

func afterBookTitle(text []rune, colon int) bool {
	return colon > 0 && text[colon-1] == '》'
}

func afterSenseMarker(text []rune, colon int) bool {
	if colon < 2 {
		return false
	}
	for _, m := range senseMarkers {
		if text[colon-2] == m[0] && text[colon-1] == m[1] {
			return true
		}
	}
	return false
}

// trimHeadword drops surrounding spaces, quotes and clause punctuation.
func trimHeadword(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '　', '“', '”', '「', '」', '、':
			return true
		}
		return isClausePunct(r)
	})
}

func indexRune(text []rune, target rune) int {
	for i, r := range text {
		if r == target {
			return i
		}
	}
	return -1
}
