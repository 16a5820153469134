// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/plagia/internal/report"
)

var renderCmd = &cobra.Command{
	Use:   "render <report.yaml>",
	Short: "Render a saved report in another format",
	Long: `Render loads a report written by "analyze --save" and prints it as a
table, JSON, CSL-YAML bibliography or HTML page without re-running the
analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := report.Load(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return writeReport(rep, format, output)
	},
}

func init() {
	renderCmd.Flags().String("format", "table", "output format: table, json, csl, html")
	renderCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	rootCmd.AddCommand(renderCmd)
}
