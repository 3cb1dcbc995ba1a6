package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vct-tools/vctstats/internal/report"
	"github.com/vct-tools/vctstats/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <handle>",
	Short: "Show one player's stored match stats across tours",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	handle := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetPlayerStats(handle)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No stats stored for player %q\n", handle)
		return nil
	}

	report.PrintStatsTable(os.Stdout, rows, handle)
	return nil
}
