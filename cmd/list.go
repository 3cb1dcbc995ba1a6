package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vct-tools/vctstats/internal/report"
	"github.com/vct-tools/vctstats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored tour runs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	tours, err := db.ListTours()
	if err != nil {
		return fmt.Errorf("list tours: %w", err)
	}
	if len(tours) == 0 {
		fmt.Fprintln(os.Stdout, "No tours stored yet. Run 'vctstats run' to process one.")
		return nil
	}

	report.PrintTourList(os.Stdout, tours)
	return nil
}
