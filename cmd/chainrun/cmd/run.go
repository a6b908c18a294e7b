// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/chainforge/internal/chainrun"
	"github.com/kusari-oss/chainforge/internal/core/format"
)

func newRunCmd() *cobra.Command {
	var timeoutMs int
	var outputPath string

	runCmd := &cobra.Command{
		Use:   "run <chain-file>",
		Short: "Parse, validate, and run a chain, printing its JSON run record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading chain file: %w", err)
			}

			c, err := chainrun.Parse(data)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			if timeoutMs > 0 {
				c.TimeoutMs = &timeoutMs
			}

			if errs := chainrun.Validate(c); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, e)
				}
				os.Exit(1)
			}

			run := chainrun.Run(cmd.Context(), c, nil)

			if outputPath != "" {
				if err := format.WriteFile(outputPath, run); err != nil {
					return fmt.Errorf("writing output file: %w", err)
				}
			} else {
				out, err := json.MarshalIndent(run, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding run record: %w", err)
				}
				fmt.Println(string(out))
			}

			if run.Error != nil {
				os.Exit(1)
			}
			return nil
		},
	}

	runCmd.Flags().IntVar(&timeoutMs, "timeout", 0, "override the chain-level default step timeout, in milliseconds")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the run record to this file instead of stdout")

	return runCmd
}
