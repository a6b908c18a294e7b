// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kusari-oss/chainforge/internal/chainlog"
	"github.com/kusari-oss/chainforge/internal/version"
)

var (
	logFileFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:     "chainrun",
	Short:   "Run deterministic script chains",
	Long:    `chainrun parses, validates, and executes script chains: declarative sequences of interpreter-run steps wired together by typed references.`,
	Version: fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(logLevelFlag)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevelFlag, err)
		}
		chainlog.Configure(logFileFlag, lvl)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "write logs to this file instead of stderr (rotated)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newRunCmd())
}
