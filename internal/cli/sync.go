package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile all Canvas assignments into the Notion database",
	Long: `Fetches every assignment from active Canvas courses and reconciles each
into the Notion database: one row per assignment, with an AI-generated
overview and a recomputed urgency tier. Existing rows are updated in
place; the Done checkbox is never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		return runner.Sync(context.Background(), syncDryRun)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Log what would change without writing to Notion")
}
