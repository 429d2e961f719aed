package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/corpusstat"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

type statRow struct {
	Word         string `json:"word"`
	FreqTextbook int    `json:"freq_textbook"`
	FreqDataset  int    `json:"freq_dataset"`
	FreqQuery    int    `json:"freq_query"`
	Total        int    `json:"total"`
}

func newTopCmd(root *rootOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most frequent words from the database counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root.logger()
			ctx := cmd.Context()

			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			w := cfg.Frequency.Weights()
			stats, err := corpusstat.New(pool).ListTop(ctx, w, limit, offset)
			if err != nil {
				return fmt.Errorf("list top words: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), toStatRows(stats, w))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of words")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of words to skip")
	return cmd
}

func toStatRows(stats []domain.CorpusStat, w domain.FreqWeights) []statRow {
	rows := make([]statRow, len(stats))
	for i, s := range stats {
		rows[i] = statRow{
			Word:         s.Word,
			FreqTextbook: s.FreqTextbook,
			FreqDataset:  s.FreqDataset,
			FreqQuery:    s.FreqQuery,
			Total:        s.TotalFreq(w),
		}
	}
	return rows
}
