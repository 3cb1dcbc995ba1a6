package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vct-tools/vctstats/internal/agents"
	"github.com/vct-tools/vctstats/internal/blob"
	"github.com/vct-tools/vctstats/internal/config"
	"github.com/vct-tools/vctstats/internal/diag"
	"github.com/vct-tools/vctstats/internal/logger"
	"github.com/vct-tools/vctstats/internal/pipeline"
)

var fandomCmd = &cobra.Command{
	Use:   "fandom",
	Short: "Copy fandom data, decompressed, to the destination bucket",
	Args:  cobra.NoArgs,
	RunE:  runFandom,
}

func runFandom(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	log := logger.New("info")
	cfg, err := config.Load(log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		log = logger.New(logLevel)
	}

	table, err := agents.Load()
	if err != nil {
		return err
	}
	store, err := blob.NewS3(ctx)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}

	p := pipeline.New(store, cfg, table, log, diag.NewRecorder())
	return p.RunFandom(ctx)
}
