package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vct-tools/vctstats/internal/report"
	"github.com/vct-tools/vctstats/internal/storage"
)

var showFocusHandle string

var showCmd = &cobra.Command{
	Use:   "show <tour>",
	Short: "Show stored player stats for one tour",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFocusHandle, "player", "", "highlight this player handle")
}

func runShow(cmd *cobra.Command, args []string) error {
	tour := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetTourStats(tour)
	if err != nil {
		return fmt.Errorf("get tour stats: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No stats stored for tour %q\n", tour)
		return nil
	}

	report.PrintStatsTable(os.Stdout, rows, showFocusHandle)
	return nil
}
