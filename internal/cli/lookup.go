package cli

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wenyan-gloss/internal/app"
	"github.com/heartmarshall/wenyan-gloss/internal/config"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

type lookupResult struct {
	Query string        `json:"query"`
	Notes []domain.Note `json:"notes"`
	Freq  *freqSummary  `json:"freq,omitempty"`
}

type freqSummary struct {
	Word         string `json:"word"`
	TextbookFreq int    `json:"textbook_freq"`
	DatasetFreq  int    `json:"dataset_freq"`
	QueryFreq    int    `json:"query_freq"`
	Total        int    `json:"total"`
}

func newLookupCmd(root *rootOptions) *cobra.Command {
	var (
		files    config.CorpusConfig
		withFreq bool
		weights  config.FrequencyConfig
	)

	cmd := &cobra.Command{
		Use:   "lookup <query>",
		Short: "Search textbook notes by characters",
		Long:  "Loads note files and prints the textbook notes whose word contains every character of the query.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root.logger()

			corp, err := app.LoadCorpus(cmd.Context(), files, weights.Weights())
			if err != nil {
				return err
			}

			q := domain.NormalizeQuery(args[0])
			res := lookupResult{Query: q, Notes: corp.Lookup(q)}
			if withFreq {
				info := corp.Freq(q)
				res.Freq = &freqSummary{
					Word:         q,
					TextbookFreq: info.TextbookFreq,
					DatasetFreq:  info.DatasetFreq,
					QueryFreq:    info.QueryFreq,
					Total:        info.TotalFreq(corp.Weights()),
				}
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringSliceVar(&files.TextbookNotes, "textbook", nil, "Textbook note files")
	cmd.Flags().StringSliceVar(&files.DatasetNotes, "dataset", nil, "Dataset note files")
	cmd.Flags().StringSliceVar(&files.QueryNotes, "query", nil, "Query note files")
	cmd.Flags().BoolVar(&withFreq, "freq", false, "Also print the frequency counters of the query")
	cmd.Flags().IntVar(&weights.TextbookWeight, "textbook-weight", 3, "Ranking weight of textbook notes")
	cmd.Flags().IntVar(&weights.DatasetWeight, "dataset-weight", 1, "Ranking weight of dataset notes")
	cmd.Flags().IntVar(&weights.QueryWeight, "query-weight", 2, "Ranking weight of live queries")
	return cmd
}
