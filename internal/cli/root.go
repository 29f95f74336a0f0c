// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootOptions are the global flags shared by every command.
type rootOptions struct {
	configPath  string
	catalogPath string
	stateDir    string
	logLevel    string

	stderr io.Writer
	now    func() time.Time
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{stderr: os.Stderr})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "menurec",
		Short: "Context-aware restaurant menu recommendations",
		Long: `menurec ranks the menu items of a catalog file for a user, taking
the time of day, the weather and the party size into account.

Feedback and orders refine the user's learned preferences. With --state the
learned state is kept in a local snapshot between runs.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.stderr = cmd.ErrOrStderr()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: menurec.yaml or /etc/menurec/config.yaml)")
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "",
		"catalog JSON file with items and optional profiles, stock, orders and feedback")
	root.PersistentFlags().StringVar(&opts.stateDir, "state", "",
		"snapshot directory; enables persistence of learned state")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"override logging.level")

	root.AddCommand(
		newVersionCommand(),
		newRecommendCommand(opts),
		newFeedbackCommand(opts),
		newOrderCommand(opts),
		newTrendingCommand(opts),
		newSimilarUsersCommand(opts),
		newStatsCommand(opts),
		newServeCommand(opts),
		newBackupCommand(opts),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "menurec %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", buildTime)
		},
	}
}
