package cli

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/corpusstat"
	"github.com/heartmarshall/wenyan-gloss/internal/app/pipeline"
)

// Compile-time interface assertion.
var _ pipeline.StatSeeder = (*corpusstat.Repo)(nil)

var errPhasesFailed = errors.New("pipeline completed with errors")

func newPipelineCmd(root *rootOptions) *cobra.Command {
	var (
		phaseFlag  string
		dryRun     bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Extract notes, rank word frequency and seed the counters",
		Long: "Runs the offline build phases in order: " + strings.Join(pipeline.AllPhases(), ", ") + ".\n" +
			"Outputs are JSON Lines files in the configured output directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := root.logger()

			cfg, err := pipeline.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if dryRun {
				cfg.DryRun = true
			}
			phases := parsePhases(phaseFlag)

			ctx := cmd.Context()
			var seeder pipeline.StatSeeder
			if needsDatabase(phases, cfg.DryRun) {
				_, pool, err := connect(ctx)
				if err != nil {
					return err
				}
				defer pool.Close()
				seeder = corpusstat.New(pool)
			}

			p := pipeline.NewPipeline(logger, seeder, *cfg)
			if err := p.Run(ctx, phases); err != nil {
				return err
			}
			if p.HasErrors() {
				return errPhasesFailed
			}
			logger.Info("pipeline completed successfully", slog.String("output_dir", cfg.OutputDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&phaseFlag, "phase", "", "Comma-separated phases to run (default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse inputs without writing files or the database")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to pipeline YAML config (default: environment only)")
	return cmd
}

func parsePhases(flag string) []string {
	if strings.TrimSpace(flag) == "" {
		return nil
	}
	var phases []string
	for _, ph := range strings.Split(flag, ",") {
		if ph = strings.TrimSpace(ph); ph != "" {
			phases = append(phases, ph)
		}
	}
	return phases
}

func needsDatabase(phases []string, dryRun bool) bool {
	if dryRun {
		return false
	}
	return len(phases) == 0 || slices.Contains(phases, pipeline.PhaseSeed)
}
