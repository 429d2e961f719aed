package gloss

import (
	"fmt"
	"unicode/utf8"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// LocateSpan finds the headword right before the anchor end in content.
//
// The walk goes backward from end and consumes every rune still present in
// the multiset of unmatched headword runes. The first rune that is not in the
// multiset stops the walk. It returns the resolved span and the number of
// headword runes consumed; a partial match is still a valid span.
//
// ErrUnresolvableSpan is returned when the headword is empty, the anchor is
// out of range or no headword rune could be consumed.
func LocateSpan(content []rune, end int, headword string) (domain.Span, int, error) {
	if headword == "" {
		return domain.Span{}, 0, fmt.Errorf("empty headword: %w", domain.ErrUnresolvableSpan)
	}
	if end <= 0 || end > len(content) {
		return domain.Span{}, 0, fmt.Errorf("anchor %d outside content of %d runes: %w", end, len(content), domain.ErrUnresolvableSpan)
	}

	remaining := make(map[rune]int, utf8.RuneCountInString(headword))
	left := 0
	for _, r := range headword {
		remaining[r]++
		left++
	}

	start := end
	for start > 0 && left > 0 {
		r := content[start-1]
		if remaining[r] == 0 {
			break
		}
		remaining[r]--
		left--
		start--
	}

	if start == end {
		return domain.Span{}, 0, fmt.Errorf("headword %q not found before anchor %d: %w", headword, end, domain.ErrUnresolvableSpan)
	}
	return domain.Span{Start: start, End: end}, end - start, nil
}
