package glossary

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// ---------------------------------------------------------------------------
// 2. FreqDetail
// ---------------------------------------------------------------------------

// FreqDetail returns the counters of word and one page of its corpus records.
//
// Textbook and dataset counts come from the loaded corpus. The query count is
// the larger of the loaded count and the live counter, since exported live
// queries are reloaded as query notes. Records list the loaded textbook and
// dataset notes first, then the stored live queries, newest first. An unknown
// word yields zero counts and a single empty page.
func (s *Service) FreqDetail(ctx context.Context, word string, page int) (*FreqDetail, error) {
	word = domain.NormalizeQuery(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "required")
	}
	if page < 1 {
		page = 1
	}

	info := s.corpus.Freq(word)

	live, err := s.stats.GetByWord(ctx, word)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get corpus stat: %w", err)
	}

	loaded := s.loadedRecords(word)

	stored, err := s.queries.CountByWord(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("count queries: %w", err)
	}

	total := len(loaded) + stored
	detail := &FreqDetail{
		Stat: domain.CorpusStat{
			Word:         word,
			FreqTextbook: info.TextbookFreq,
			FreqDataset:  info.DatasetFreq,
			FreqQuery:    max(info.QueryFreq, live.FreqQuery),
			UpdatedAt:    live.UpdatedAt,
		},
		Records:    []domain.CorpusRecord{},
		Page:       page,
		TotalPages: max(1, (total+s.pageSize-1)/s.pageSize),
	}

	offset := (page - 1) * s.pageSize
	if offset >= total {
		return detail, nil
	}

	if offset < len(loaded) {
		end := min(offset+s.pageSize, len(loaded))
		detail.Records = append(detail.Records, loaded[offset:end]...)
	}

	remaining := s.pageSize - len(detail.Records)
	if remaining > 0 && stored > 0 {
		recs, err := s.queries.ListByWord(ctx, word, remaining, max(0, offset-len(loaded)))
		if err != nil {
			return nil, fmt.Errorf("list queries: %w", err)
		}
		for _, q := range recs {
			detail.Records = append(detail.Records, domain.RecordFromQuery(q))
		}
	}

	return detail, nil
}

// loadedRecords returns the textbook and dataset records of word. Loaded
// query notes are left out because the live store already lists them.
func (s *Service) loadedRecords(word string) []domain.CorpusRecord {
	all := s.corpus.Records(word)
	out := make([]domain.CorpusRecord, 0, len(all))
	for _, r := range all {
		if r.Kind != domain.CorpusQuery {
			out = append(out, r)
		}
	}
	return out
}
