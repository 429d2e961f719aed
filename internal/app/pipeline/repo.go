// Package pipeline orchestrates the offline corpus build: note extraction,
// frequency ranking, stride sampling and seeding the live counters.
package pipeline

import (
	"context"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// StatSeeder defines the batch repository contract consumed by the seed phase.
// Implemented by corpusstat.Repo.
type StatSeeder interface {
	// UpsertCounts writes textbook and dataset counters, leaving live query
	// counters untouched. It returns the number of rows written.
	UpsertCounts(ctx context.Context, stats []domain.CorpusStat) (int, error)
}
