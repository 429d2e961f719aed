package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// SeedStat inserts a corpus_stats row with the given counters.
func SeedStat(t *testing.T, pool *pgxpool.Pool, word string, textbook, dataset, query int) domain.CorpusStat {
	t.Helper()

	stat := domain.CorpusStat{
		Word:         word,
		FreqTextbook: textbook,
		FreqDataset:  dataset,
		FreqQuery:    query,
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO corpus_stats (word, freq_textbook, freq_dataset, freq_query, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		stat.Word, stat.FreqTextbook, stat.FreqDataset, stat.FreqQuery, stat.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStat insert: %v", err)
	}

	return stat
}

// SeedQuery inserts a corpus_queries row for word.
func SeedQuery(t *testing.T, pool *pgxpool.Pool, word, excerpt, answer string) domain.QueryRecord {
	t.Helper()

	rec := domain.QueryRecord{
		ID:        uuid.New(),
		Word:      word,
		Context:   excerpt,
		Answer:    answer,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO corpus_queries (id, word, context, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Word, rec.Context, rec.Answer, rec.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuery insert: %v", err)
	}

	return rec
}
