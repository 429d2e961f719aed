package gloss

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// ExtractSubNotes splits the embedded "headword，explanation。" clauses out of
// a draft's detail.
//
// The detail is normalized first: one trailing pause mark or semicolon is
// dropped and a full stop is appended when it does not end with clause
// punctuation. Each pause mark whose preceding clause occurs verbatim in the
// draft's original text yields a sub-note explaining that clause, and the
// clause with its explanation is cut from the canonical detail.
//
// The returned draft carries the normalized full detail and the canonical
// detail. Rejected candidates are reported as errors; none of them is fatal.
func ExtractSubNotes(d domain.NoteDraft) (domain.NoteDraft, []domain.Note, []error) {
	detail := normalizeDetail(d.FullDetail)
	d.FullDetail = string(detail)
	d.CanonicalDetail = d.FullDetail
	if len(detail) == 0 {
		return d, nil, nil
	}

	original := d.OriginalText()

	var marks []int
	for i, r := range detail {
		if isClausePunct(r) {
			marks = append(marks, i)
		}
	}

	var (
		subs    []domain.Note
		cuts    []domain.Span
		rejects []error
	)
	for k, comma := range marks {
		if !isPause(detail[comma]) {
			continue
		}
		prev := -1
		if k > 0 {
			prev = marks[k-1]
		}
		end := nextTerminator(detail, marks[k+1:])
		if end < 0 {
			continue
		}

		candidate := string(detail[prev+1 : comma])
		if candidate == "" {
			rejects = append(rejects, fmt.Errorf("empty sub-note headword at %d: %w", comma, domain.ErrDegenerateNote))
			continue
		}
		at := strings.Index(original, candidate)
		if at < 0 {
			continue
		}

		start := d.Span.Start + utf8.RuneCountInString(original[:at])
		span := domain.Span{Start: start, End: start + utf8.RuneCountInString(candidate)}
		subDetail := string(detail[comma+1 : end+1])

		sub, err := domain.NewNote(d.SourceID, d.Context, span, subDetail, subDetail)
		if err != nil {
			rejects = append(rejects, fmt.Errorf("sub-note %q: %w", candidate, err))
			continue
		}
		subs = append(subs, sub)
		cuts = append(cuts, domain.Span{Start: prev + 1, End: end + 1})
	}

	d.CanonicalDetail = string(removeRanges(detail, cuts))
	return d, subs, rejects
}

func normalizeDetail(raw string) []rune {
	detail := []rune(strings.TrimSpace(raw))
	if len(detail) == 0 {
		return detail
	}
	if last := detail[len(detail)-1]; isPause(last) || last == semicolon {
		detail = detail[:len(detail)-1]
	}
	if len(detail) == 0 || !isClausePunct(detail[len(detail)-1]) {
		detail = append(detail, fullStop)
	}
	return detail
}

// nextTerminator returns the first strong terminator among the given mark positions.
func nextTerminator(detail []rune, marks []int) int {
	for _, m := range marks {
		if isStrongTerminator(detail[m]) {
			return m
		}
	}
	return -1
}

// removeRanges drops the runes covered by cuts, merging overlapping ranges.
func removeRanges(text []rune, cuts []domain.Span) []rune {
	if len(cuts) == 0 {
		return text
	}
	slices.SortFunc(cuts, func(a, b domain.Span) int { return a.Start - b.Start })

	out := make([]rune, 0, len(text))
	pos := 0
	for _, c := range cuts {
		if c.Start > pos {
			out = append(out, text[pos:c.Start]...)
		}
		pos = max(pos, c.End)
	}
	if pos < len(text) {
		out = append(out, text[pos:]...)
	}
	return out
}
