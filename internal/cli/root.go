package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/config"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/jobs"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "canvasplanner",
		Short: "Canvas AI Planner - syncs Canvas assignments into Notion with LLM summaries",
		Long: `Canvas AI Planner pulls assignments from Canvas, summarizes and plans them
with an LLM, and reconciles them into a Notion database.

It runs as three batch jobs: a weekly planner, a daily change detector,
and a full task synchronizer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return fmt.Errorf("expected a subcommand: weekly, daily, sync or test")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newRunner loads the configuration and wires the job runner. All
// configuration errors, including an unknown backend selector, surface
// here before any job starts.
func newRunner() (*jobs.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return jobs.NewRunner(cfg, logrus.StandardLogger())
}
