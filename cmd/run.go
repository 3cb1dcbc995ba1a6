package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vct-tools/vctstats/internal/agents"
	"github.com/vct-tools/vctstats/internal/blob"
	"github.com/vct-tools/vctstats/internal/config"
	"github.com/vct-tools/vctstats/internal/diag"
	"github.com/vct-tools/vctstats/internal/logger"
	"github.com/vct-tools/vctstats/internal/pipeline"
	"github.com/vct-tools/vctstats/internal/storage"
)

var runTourName string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the aggregation pipeline",
	Long: `Builds each tour's reference directory, replays every match event log,
joins the results into per-player statistics, uploads the per-tour
artifacts, and mirrors the joined rows into the local stats database.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTourName, "tour", "", "process only this tour (default: all)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	log := logger.New("info")
	cfg, err := config.Load(log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		log = logger.New(logLevel)
	} else {
		log = logger.New(cfg.LogLevel)
	}

	if runTourName != "" {
		tour, ok := cfg.TourByName(runTourName)
		if !ok {
			return fmt.Errorf("unknown tour %q", runTourName)
		}
		cfg.Tours = []config.Tour{tour}
	}

	table, err := agents.Load()
	if err != nil {
		return err
	}
	store, err := blob.NewS3(ctx)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	p := pipeline.New(store, cfg, table, log, diag.NewRecorder())
	results, err := p.Run(ctx)
	if err != nil {
		return err
	}

	for _, result := range results {
		if err := db.UpsertTour(result.Tour, result.MatchesProcessed, result.MatchesSkipped); err != nil {
			return fmt.Errorf("record tour %s: %w", result.Tour, err)
		}
		if err := db.InsertPlayerGameStats(result.Rows); err != nil {
			return fmt.Errorf("store stats for %s: %w", result.Tour, err)
		}
		fmt.Fprintf(os.Stdout, "%s: %d matches processed, %d skipped, %d player rows\n",
			result.Tour, result.MatchesProcessed, result.MatchesSkipped, len(result.Rows))
	}

	if skips := p.Diagnostics().Events(); len(skips) > 0 {
		fmt.Fprintf(os.Stdout, "%d diagnostics recorded (see logs)\n", len(skips))
	}
	return nil
}
