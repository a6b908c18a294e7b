// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/chainforge/internal/chainrun"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <chain-file>",
		Short: "Parse and validate a chain document without running it",
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

			errs := chainrun.Validate(c)
			if len(errs) == 0 {
				fmt.Println("chain is valid")
				return nil
			}

			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			os.Exit(1)
			return nil
		},
	}
}
