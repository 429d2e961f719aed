// Package dictcache caches scraped dictionary definitions in PostgreSQL as JSONB.
package dictcache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

const (
	table  = "dict_cache"
	entity = "dict_cache"
)

// content is the JSONB document stored per word.
type content struct {
	Basic    []string `json:"basic"`
	Detailed []string `json:"detailed"`
	Phrases  []string `json:"phrases"`
}

// Repo provides dict_cache persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new definition cache repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the cached definition of word with Cached set.
// Returns domain.ErrNotFound on a cache miss.
func (r *Repo) Get(ctx context.Context, word string) (domain.Definition, error) {
	sql, args, err := postgres.Builder().
		Select("content").
		From(table).
		Where(squirrel.Eq{"word": word}).
		ToSql()
	if err != nil {
		return domain.Definition{}, fmt.Errorf("build get %s: %w", entity, err)
	}

	var raw []byte
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return domain.Definition{}, postgres.MapError(err, entity, word)
	}

	var c content
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Definition{}, fmt.Errorf("%s %s: decode content: %w", entity, word, err)
	}

	return domain.Definition{
		Word:     word,
		Basic:    nonNil(c.Basic),
		Detailed: nonNil(c.Detailed),
		Phrases:  nonNil(c.Phrases),
		Cached:   true,
	}, nil
}

// Save stores or replaces the definition of def.Word.
func (r *Repo) Save(ctx context.Context, def domain.Definition) error {
	raw, err := json.Marshal(content{
		Basic:    nonNil(def.Basic),
		Detailed: nonNil(def.Detailed),
		Phrases:  nonNil(def.Phrases),
	})
	if err != nil {
		return fmt.Errorf("%s %s: encode content: %w", entity, def.Word, err)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("word", "content").
		Values(def.Word, raw).
		Suffix("ON CONFLICT (word) DO UPDATE SET content = EXCLUDED.content, created_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save %s: %w", entity, err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, entity, def.Word)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
