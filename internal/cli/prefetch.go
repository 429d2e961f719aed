package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/corpusstat"
	"github.com/heartmarshall/wenyan-gloss/internal/app"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

var errDictionaryDisabled = errors.New("dictionary is disabled in config")

type definitionFetcher interface {
	GetOrFetch(ctx context.Context, word string) (domain.Definition, error)
}

type prefetchStats struct {
	Cached  int `json:"cached"`
	Fetched int `json:"fetched"`
	Empty   int `json:"empty"`
	Failed  int `json:"failed"`
}

func newPrefetchCmd(root *rootOptions) *cobra.Command {
	var (
		limit int
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Warm the dictionary cache for the most frequent words",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := root.logger()
			ctx := cmd.Context()

			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			defs, closeDefs, err := app.NewDefinitionService(logger, cfg.Zdic, pool)
			if err != nil {
				return err
			}
			defer closeDefs()
			if defs == nil {
				return errDictionaryDisabled
			}

			stats, err := corpusstat.New(pool).ListTop(ctx, cfg.Frequency.Weights(), limit, 0)
			if err != nil {
				return fmt.Errorf("list top words: %w", err)
			}
			words := make([]string, len(stats))
			for i, s := range stats {
				words[i] = s.Word
			}

			res, err := prefetch(ctx, logger, defs, words, delay)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 500, "Number of top words to prefetch")
	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "Pause between requests to the dictionary site")
	return cmd
}

// prefetch resolves every word once. A failed word is logged and counted;
// only context cancellation stops the run. The delay applies only after a
// request that reached the dictionary site.
func prefetch(ctx context.Context, logger *slog.Logger, defs definitionFetcher, words []string, delay time.Duration) (prefetchStats, error) {
	var st prefetchStats

	for i, word := range words {
		d, err := defs.GetOrFetch(ctx, word)
		switch {
		case err != nil && ctx.Err() != nil:
			return st, ctx.Err()
		case err != nil:
			st.Failed++
			logger.Warn("prefetch failed", slog.String("word", word), slog.String("error", err.Error()))
			continue
		case d.Cached:
			st.Cached++
			continue
		case d.IsEmpty():
			st.Empty++
		default:
			st.Fetched++
		}

		if (i+1)%50 == 0 {
			logger.Info("prefetch progress", slog.Int("done", i+1), slog.Int("total", len(words)))
		}

		if delay > 0 && i < len(words)-1 {
			select {
			case <-ctx.Done():
				return st, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return st, nil
}
