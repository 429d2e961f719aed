package glossary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// ---------------------------------------------------------------------------
// 3. RecordQuery
// ---------------------------------------------------------------------------

// RecordQuery counts one live query of a word and stores it with its context
// and answer. Both writes happen in one transaction.
func (s *Service) RecordQuery(ctx context.Context, in RecordQueryInput) (domain.QueryRecord, error) {
	in.Word = domain.NormalizeQuery(in.Word)
	if err := in.Validate(); err != nil {
		return domain.QueryRecord{}, err
	}

	var (
		stat  domain.CorpusStat
		saved domain.QueryRecord
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		stat, err = s.stats.IncrementQuery(txCtx, in.Word)
		if err != nil {
			return fmt.Errorf("increment query count: %w", err)
		}
		saved, err = s.queries.Create(txCtx, domain.QueryRecord{
			Word:    in.Word,
			Context: in.Context,
			Answer:  in.Answer,
		})
		if err != nil {
			return fmt.Errorf("create query record: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.QueryRecord{}, err
	}

	s.log.InfoContext(ctx, "query recorded",
		slog.String("word", in.Word),
		slog.Int("freq_query", stat.FreqQuery),
	)

	return saved, nil
}
