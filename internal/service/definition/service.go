// Package definition serves dictionary definitions from the cache, fetching
// and storing them on a miss.
package definition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/heartmarshall/wenyan-gloss/internal/provider"
)

type definitionCache interface {
	Get(ctx context.Context, word string) (domain.Definition, error)
	Save(ctx context.Context, def domain.Definition) error
}

type definitionProvider interface {
	FetchDefinition(ctx context.Context, word string) (*provider.DefinitionResult, error)
}

// Service implements cache-or-fetch over one definition cache and one provider.
type Service struct {
	log      *slog.Logger
	cache    definitionCache
	provider definitionProvider
}

// NewService creates a new Definition service.
func NewService(logger *slog.Logger, cache definitionCache, provider definitionProvider) *Service {
	return &Service{
		log:      logger.With("service", "definition"),
		cache:    cache,
		provider: provider,
	}
}

// GetOrFetch returns the cached definition of word or fetches it from the
// provider. Fetched results are cached even when the site has no entry, so a
// missing word is not fetched again. A failed cache write is logged and the
// fetched definition is still returned.
func (s *Service) GetOrFetch(ctx context.Context, word string) (domain.Definition, error) {
	word = domain.NormalizeQuery(word)
	if word == "" {
		return domain.Definition{}, domain.NewValidationError("word", "required")
	}

	cached, err := s.cache.Get(ctx, word)
	if err == nil {
		cached.Cached = true
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Definition{}, fmt.Errorf("get cached definition: %w", err)
	}

	result, err := s.provider.FetchDefinition(ctx, word)
	if err != nil {
		s.log.ErrorContext(ctx, "definition provider error",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return domain.Definition{}, fmt.Errorf("fetch definition: %w", err)
	}

	def := mapToDefinition(word, result)

	if err := s.cache.Save(ctx, def); err != nil {
		s.log.WarnContext(ctx, "cache definition failed",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
	} else {
		s.log.InfoContext(ctx, "definition fetched and cached",
			slog.String("word", word),
			slog.Bool("empty", def.IsEmpty()),
		)
	}

	return def, nil
}

func mapToDefinition(word string, r *provider.DefinitionResult) domain.Definition {
	def := domain.Definition{
		Word:     word,
		Basic:    []string{},
		Detailed: []string{},
		Phrases:  []string{},
	}
	if r == nil {
		return def
	}
	def.Basic = append(def.Basic, r.Basic...)
	def.Detailed = append(def.Detailed, r.Detailed...)
	def.Phrases = append(def.Phrases, r.Phrases...)
	return def
}
