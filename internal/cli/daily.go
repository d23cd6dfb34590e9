package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Detect and summarize assignment changes since the last run",
	Long: `Compares the current Canvas assignment set against the cached snapshot
and writes a summary of new or changed work to Notion. When nothing
changed, the job exits without touching the snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		return runner.Daily(context.Background())
	},
}
