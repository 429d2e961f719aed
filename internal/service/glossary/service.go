// Package glossary serves the gloss queries of the web API: textbook browse,
// frequency detail, live query recording and the streamed gloss response.
package glossary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type corpusIndex interface {
	Lookup(q string) []domain.Note
	Freq(word string) domain.FreqInfo
	Records(word string) []domain.CorpusRecord
}

type statRepo interface {
	IncrementQuery(ctx context.Context, word string) (domain.CorpusStat, error)
	GetByWord(ctx context.Context, word string) (domain.CorpusStat, error)
}

type queryRepo interface {
	Create(ctx context.Context, rec domain.QueryRecord) (domain.QueryRecord, error)
	CountByWord(ctx context.Context, word string) (int, error)
	ListByWord(ctx context.Context, word string, limit, offset int) ([]domain.QueryRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type definitionService interface {
	GetOrFetch(ctx context.Context, word string) (domain.Definition, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the gloss query operations.
type Service struct {
	log         *slog.Logger
	corpus      corpusIndex
	stats       statRepo
	queries     queryRepo
	tx          txManager
	definitions definitionService
	pageSize    int
}

// NewService creates a new Glossary service. pageSize is the number of
// corpus records per frequency detail page.
func NewService(
	logger *slog.Logger,
	corpus corpusIndex,
	stats statRepo,
	queries queryRepo,
	tx txManager,
	pageSize int,
) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		log:      logger.With("service", "glossary"),
		corpus:   corpus,
		stats:    stats,
		queries:  queries,
		tx:       tx,
		pageSize: pageSize,
	}
}

// SetDefinitions injects the optional dictionary service. Without it the
// gloss stream carries no dictionary item.
func (s *Service) SetDefinitions(d definitionService) {
	s.definitions = d
}
