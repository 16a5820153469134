// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plagia/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <code>",
	Short: "Check whether a verification code was issued",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		code := verify.Normalize(args[0])
		ok, err := a.pipeline.Verify(cmd.Context(), code)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", code)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: not found\n", code)
		return fmt.Errorf("verification code %s was not issued", code)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
