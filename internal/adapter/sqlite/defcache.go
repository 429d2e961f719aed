// Package sqlite implements a file-backed dictionary definition cache for
// offline prefetching, so a crawl can run without a Postgres instance.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS dict_cache (
	word       TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

type content struct {
	Basic    []string `json:"basic"`
	Detailed []string `json:"detailed"`
	Phrases  []string `json:"phrases"`
}

// DefinitionCache stores scraped definitions in a SQLite file.
type DefinitionCache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*DefinitionCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DefinitionCache{db: db}, nil
}

// Close closes the underlying database.
func (c *DefinitionCache) Close() error {
	return c.db.Close()
}

// Get returns the cached definition of word with Cached set.
// Returns domain.ErrNotFound on a cache miss.
func (c *DefinitionCache) Get(ctx context.Context, word string) (domain.Definition, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT content FROM dict_cache WHERE word = ?`, word).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Definition{}, fmt.Errorf("dict_cache %s: %w", word, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Definition{}, fmt.Errorf("dict_cache %s: %w", word, err)
	}

	var ct content
	if err := json.Unmarshal([]byte(raw), &ct); err != nil {
		return domain.Definition{}, fmt.Errorf("dict_cache %s: decode content: %w", word, err)
	}

	return domain.Definition{
		Word:     word,
		Basic:    nonNil(ct.Basic),
		Detailed: nonNil(ct.Detailed),
		Phrases:  nonNil(ct.Phrases),
		Cached:   true,
	}, nil
}

// Save stores or replaces the definition of def.Word.
func (c *DefinitionCache) Save(ctx context.Context, def domain.Definition) error {
	raw, err := json.Marshal(content{
		Basic:    nonNil(def.Basic),
		Detailed: nonNil(def.Detailed),
		Phrases:  nonNil(def.Phrases),
	})
	if err != nil {
		return fmt.Errorf("dict_cache %s: encode content: %w", def.Word, err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO dict_cache (word, content, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(word) DO UPDATE SET content = excluded.content, created_at = excluded.created_at`,
		def.Word, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("dict_cache %s: %w", def.Word, err)
	}
	return nil
}

// Count returns the number of cached words.
func (c *DefinitionCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM dict_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("dict_cache count: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
