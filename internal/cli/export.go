package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/corpusquery"
	"github.com/heartmarshall/wenyan-gloss/internal/corpus"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/heartmarshall/wenyan-gloss/internal/gloss"
)

func newExportQueriesCmd(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-queries",
		Short: "Export stored user queries as a query note stream",
		Long:  "Converts every stored user query into a note and writes them as JSON Lines, ready to be loaded as query notes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := root.logger()
			ctx := cmd.Context()

			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			written, skipped, err := exportQueries(logger, w, func(fn func(domain.QueryRecord) error) error {
				return corpusquery.New(pool).Each(ctx, fn)
			})
			if err != nil {
				return err
			}
			logger.Info("queries exported", slog.Int("written", written), slog.Int("skipped", skipped))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

// exportQueries writes a note for every query whose word occurs in its
// context. Other queries are counted as skipped.
func exportQueries(logger *slog.Logger, w io.Writer, scan func(func(domain.QueryRecord) error) error) (written, skipped int, err error) {
	buf := bufio.NewWriter(w)
	jw := corpus.NewWriter(buf)

	err = scan(func(q domain.QueryRecord) error {
		n, err := gloss.NoteFromQuery(q.Context, q.Word, q.Answer)
		if err != nil {
			skipped++
			logger.Debug("skip query", slog.String("id", q.ID.String()), slog.String("error", err.Error()))
			return nil
		}
		return jw.Write(n)
	})
	if err != nil {
		return jw.Count(), skipped, fmt.Errorf("export queries: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return jw.Count(), skipped, err
	}
	return jw.Count(), skipped, nil
}
