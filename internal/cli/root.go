// Package cli implements the glossctl commands: the offline corpus pipeline
// and maintenance tasks against the corpus files and the database.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/app"
	"github.com/heartmarshall/wenyan-gloss/internal/config"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCmd builds the glossctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "glossctl",
		Short:         "Classical Chinese gloss corpus tool",
		Long:          "Builds the gloss corpus offline and maintains the counters and the dictionary cache of a running deployment.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: json or text")

	root.AddCommand(
		newPipelineCmd(opts),
		newLookupCmd(opts),
		newExportQueriesCmd(opts),
		newTopCmd(opts),
		newPrefetchCmd(opts),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) logger() *slog.Logger {
	return app.NewLogger(config.LogConfig{Level: o.logLevel, Format: o.logFormat})
}

// connect loads the application config and opens the database pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load app config: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return cfg, pool, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
