package glossary

import (
	"strings"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. Lookup
// ---------------------------------------------------------------------------

// Lookup returns the textbook notes whose word contains every character of q.
// An empty query or an unindexed character yields an empty result.
func (s *Service) Lookup(q string) []domain.Note {
	return s.corpus.Lookup(q)
}

// SearchOriginal returns the textbook notes of query whose context overlaps
// the excerpt, that is the annotations of the very passage being read.
func (s *Service) SearchOriginal(excerpt, query string) []domain.Note {
	excerpt = domain.NormalizeQuery(excerpt)
	found := []domain.Note{}
	if excerpt == "" {
		return found
	}
	for _, n := range s.corpus.Lookup(query) {
		if n.OriginalText() != domain.NormalizeQuery(query) {
			continue
		}
		if strings.Contains(excerpt, n.Context) || strings.Contains(n.Context, excerpt) {
			found = append(found, n)
		}
	}
	return found
}
