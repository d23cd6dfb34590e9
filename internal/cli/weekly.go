package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Generate the weekly study plan",
	Long: `Fetches every assignment from active Canvas courses, groups them by
urgency, and asks the completion backend for a plan for the coming week.
The plan is written to the Notion database as a note page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		return runner.Weekly(context.Background())
	},
}
