// Package corpus holds the in-memory note corpus: the reverse character
// index used for textbook browsing, the frequency aggregator and the
// JSON-Lines codecs of the persisted note and frequency streams.
package corpus

import (
	"slices"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// CharIndex maps every rune of an annotated word to the notes whose word
// contains it. It is read-only after NewCharIndex.
type CharIndex struct {
	notes    []domain.Note
	postings map[rune][]int
}

// NewCharIndex indexes the original text of every note.
func NewCharIndex(notes []domain.Note) *CharIndex {
	ix := &CharIndex{
		notes:    notes,
		postings: make(map[rune][]int),
	}
	for i, n := range notes {
		seen := make(map[rune]struct{}, 4)
		for _, r := range n.OriginalText() {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			ix.postings[r] = append(ix.postings[r], i)
		}
	}
	return ix
}

// Lookup returns the notes whose original text contains every rune of q.
// This is a membership test, not a substring match: "河流" also matches a
// note on "流河". An empty query or an unindexed rune yields no notes.
func (ix *CharIndex) Lookup(q string) []domain.Note {
	runes := []rune(q)
	if len(runes) == 0 {
		return []domain.Note{}
	}

	candidates := slices.Clone(ix.postings[runes[0]])
	for _, r := range runes[1:] {
		if len(candidates) == 0 {
			break
		}
		candidates = intersect(candidates, ix.postings[r])
	}

	result := make([]domain.Note, 0, len(candidates))
	for _, i := range candidates {
		result = append(result, ix.notes[i])
	}
	return result
}

// Len returns the number of indexed notes.
func (ix *CharIndex) Len() int { return len(ix.notes) }

// intersect keeps the elements of a also present in b. Both are sorted.
func intersect(a, b []int) []int {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
