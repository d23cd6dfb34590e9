package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the weekly, daily and sync jobs in sequence",
	Long: `Runs all three jobs back to back against the live collaborators, in the
order weekly, daily, sync. The first failure aborts the sequence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		return runner.RunAll(context.Background())
	},
}
