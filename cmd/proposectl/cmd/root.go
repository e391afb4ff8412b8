// Package cmd implements proposectl, which runs the recommendation engine
// offline against a self-contained request file.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/backend/internal/logging"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proposectl",
		Short: "proposectl ranks recipes for a pantry without a database",
		Long: `proposectl runs the recipe proposal engine on a JSON request that carries
its own inventory, recipes and cooking history, and prints the ranked
proposals as JSON. It is meant for tuning weights and reproducing rankings.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(newProposeCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
