// Package corpusstat implements the per-word frequency counters using PostgreSQL.
// Live queries bump freq_query atomically; rebuilds replace the textbook and
// dataset counters without touching it.
package corpusstat

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

const (
	table  = "corpus_stats"
	entity = "corpus_stat"

	// upsertChunk bounds the number of rows per multi-row INSERT.
	upsertChunk = 500
)

var columns = []string{"word", "freq_textbook", "freq_dataset", "freq_query", "updated_at"}

// row is the scan target of corpus_stats.
type row struct {
	Word         string    `db:"word"`
	FreqTextbook int       `db:"freq_textbook"`
	FreqDataset  int       `db:"freq_dataset"`
	FreqQuery    int       `db:"freq_query"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.CorpusStat {
	return domain.CorpusStat{
		Word:         r.Word,
		FreqTextbook: r.FreqTextbook,
		FreqDataset:  r.FreqDataset,
		FreqQuery:    r.FreqQuery,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Repo provides corpus_stats persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new corpus stat repository. db is usually the pool.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const incrementQuerySQL = `
INSERT INTO corpus_stats (word, freq_query, updated_at)
VALUES ($1, 1, now())
ON CONFLICT (word) DO UPDATE
SET freq_query = corpus_stats.freq_query + 1,
    updated_at = now()
RETURNING word, freq_textbook, freq_dataset, freq_query, updated_at`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// IncrementQuery counts one live query of word in a single atomic upsert
// and returns the updated row.
func (r *Repo) IncrementQuery(ctx context.Context, word string) (domain.CorpusStat, error) {
	var dst row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &dst, incrementQuerySQL, word); err != nil {
		return domain.CorpusStat{}, postgres.MapError(err, entity, word)
	}
	return dst.toDomain(), nil
}

// GetByWord returns the counters of word.
// Returns domain.ErrNotFound if the word was never counted.
func (r *Repo) GetByWord(ctx context.Context, word string) (domain.CorpusStat, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"word": word}).
		ToSql()
	if err != nil {
		return domain.CorpusStat{}, fmt.Errorf("build get %s: %w", entity, err)
	}

	var dst row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &dst, sql, args...); err != nil {
		return domain.CorpusStat{}, postgres.MapError(err, entity, word)
	}
	return dst.toDomain(), nil
}

// ListTop returns counters ordered by the weighted total, highest first.
func (r *Repo) ListTop(ctx context.Context, w domain.FreqWeights, limit, offset int) ([]domain.CorpusStat, error) {
	if limit <= 0 {
		return []domain.CorpusStat{}, nil
	}

	total := fmt.Sprintf("(%d * freq_textbook + %d * freq_dataset + %d * freq_query)", w.Textbook, w.Dataset, w.Query)
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy(total+" DESC", "word ASC").
		Limit(uint64(limit)).
		Offset(uint64(max(offset, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", entity, err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, "top")
	}

	out := make([]domain.CorpusStat, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// UpsertCounts replaces the textbook and dataset counters of every stat.
// freq_query of existing rows is preserved. Words must be unique within
// stats. It returns the number of rows written.
func (r *Repo) UpsertCounts(ctx context.Context, stats []domain.CorpusStat) (int, error) {
	written := 0
	for start := 0; start < len(stats); start += upsertChunk {
		chunk := stats[start:min(start+upsertChunk, len(stats))]

		insert := postgres.Builder().
			Insert(table).
			Columns("word", "freq_textbook", "freq_dataset", "updated_at")
		for _, s := range chunk {
			insert = insert.Values(s.Word, s.FreqTextbook, s.FreqDataset, squirrel.Expr("now()"))
		}
		sql, args, err := insert.
			Suffix(`ON CONFLICT (word) DO UPDATE
SET freq_textbook = EXCLUDED.freq_textbook,
    freq_dataset = EXCLUDED.freq_dataset,
    updated_at = EXCLUDED.updated_at`).
			ToSql()
		if err != nil {
			return written, fmt.Errorf("build upsert %s: %w", entity, err)
		}

		tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
		if err != nil {
			return written, postgres.MapError(err, entity, chunk[0].Word)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}
