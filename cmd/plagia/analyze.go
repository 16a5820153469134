// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plagia/internal/pipeline"
	"github.com/pdiddy/plagia/internal/report"
	"github.com/pdiddy/plagia/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Analyze a PDF and print its similarity report",
	Long: `Analyze extracts the core text of a PDF, searches the configured
bibliographic sources for related work, ranks candidates by similarity and
prints a report with a verification code. The code is registered when a
registration store is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("name", "", "requester name (required)")
	analyzeCmd.Flags().String("email", "", "requester email (required)")
	analyzeCmd.Flags().String("format", "table", "output format: table, json, csl, html")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
	analyzeCmd.Flags().String("save", "", "also save the report as YAML for later rendering")
	analyzeCmd.Flags().Int("top", 0, "number of references listed (default from config)")
	_ = analyzeCmd.MarkFlagRequired("name")
	_ = analyzeCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	res, err := a.pipeline.Run(ctx, pipeline.Submission{
		Name:     name,
		Email:    email,
		Filename: filepath.Base(path),
		PDF:      data,
	}, session.Unlimited())
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	if top <= 0 {
		top = a.cfg.Report.TopN
	}
	rep := report.Build(res, report.Options{TopN: top})

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := rep.Save(savePath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved report to %s\n", savePath)
	}

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	return writeReport(rep, format, output)
}

// writeReport renders rep in format to path, or to stdout when path is empty.
func writeReport(rep *report.Report, format, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	return renderReport(rep, format, w)
}

func renderReport(rep *report.Report, format string, w io.Writer) error {
	switch format {
	case "", "table":
		return rep.FormatTable(w)
	case "json":
		return rep.FormatJSON(w)
	case "csl":
		return rep.FormatCSL(w)
	case "html":
		return rep.RenderHTML(w)
	default:
		return fmt.Errorf("unknown format %q: use table, json, csl, or html", format)
	}
}
