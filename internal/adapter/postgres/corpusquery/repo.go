// Package corpusquery stores live end-user queries so the next corpus
// rebuild can count them as query notes.
package corpusquery

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

const (
	table  = "corpus_queries"
	entity = "corpus_query"
)

var columns = []string{"id", "word", "context", "answer", "created_at"}

type row struct {
	ID        uuid.UUID `db:"id"`
	Word      string    `db:"word"`
	Context   string    `db:"context"`
	Answer    string    `db:"answer"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() domain.QueryRecord {
	return domain.QueryRecord{
		ID:        r.ID,
		Word:      r.Word,
		Context:   r.Context,
		Answer:    r.Answer,
		CreatedAt: r.CreatedAt,
	}
}

// Repo provides corpus_queries persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new query record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create stores a query record. A zero ID is replaced with a fresh UUID and
// CreatedAt is set by the database.
func (r *Repo) Create(ctx context.Context, rec domain.QueryRecord) (domain.QueryRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "word", "context", "answer").
		Values(rec.ID, rec.Word, rec.Context, rec.Answer).
		Suffix("RETURNING id, word, context, answer, created_at").
		ToSql()
	if err != nil {
		return domain.QueryRecord{}, fmt.Errorf("build insert %s: %w", entity, err)
	}

	var dst row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &dst, sql, args...); err != nil {
		return domain.QueryRecord{}, postgres.MapError(err, entity, rec.Word)
	}
	return dst.toDomain(), nil
}

// CountByWord returns the number of stored queries of word.
func (r *Repo) CountByWord(ctx context.Context, word string) (int, error) {
	sql, args, err := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(squirrel.Eq{"word": word}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s: %w", entity, err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, entity, word)
	}
	return n, nil
}

// ListByWord returns the queries of word, newest first.
func (r *Repo) ListByWord(ctx context.Context, word string, limit, offset int) ([]domain.QueryRecord, error) {
	if limit <= 0 {
		return []domain.QueryRecord{}, nil
	}

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"word": word}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(max(offset, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", entity, err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, word)
	}

	out := make([]domain.QueryRecord, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// Each streams every stored query in insertion order to fn.
// An error from fn stops the scan and is returned.
func (r *Repo) Each(ctx context.Context, fn func(domain.QueryRecord) error) error {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build scan %s: %w", entity, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, "all")
	}
	defer rows.Close()

	scanner := pgxscan.NewRowScanner(rows)
	for rows.Next() {
		var dst row
		if err := scanner.Scan(&dst); err != nil {
			return postgres.MapError(err, entity, "all")
		}
		if err := fn(dst.toDomain()); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return postgres.MapError(err, entity, "all")
	}
	return nil
}
