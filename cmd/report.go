// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"irmas-audit/internal/formatters"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		format     string
		outputFile string
		verbose    bool
		onlyIssues bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the merged view in a human-readable format",
		Long: fmt.Sprintf(`Merges the detail reports like "merge" but writes a single report instead
of the dispatch artifacts. Nothing else is written.

Available formats: %s`, strings.Join(formatters.List(), ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := runMerge(cmd.Context(), appConfig)
			if err != nil {
				return err
			}

			options := formatters.FormatterOptions{
				NoColor:    noColor || outputFile != "",
				Verbose:    verbose,
				OnlyIssues: onlyIssues,
			}
			out, err := formatters.Export(format, buildReport(m), options)
			if err != nil {
				return err
			}

			if outputFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if dir := filepath.Dir(outputFile); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every finding")
	cmd.Flags().BoolVar(&onlyIssues, "only-issues", false, "hide people without findings")
	return cmd
}
