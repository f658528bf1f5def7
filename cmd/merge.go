// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"irmas-audit/internal/dispatch"
	"irmas-audit/internal/observability"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMergeCmd() *cobra.Command {
	var skipReport bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the detail reports and write the dispatch artifacts",
		Long: `Reads the antivirus, banned-software and outdated-software detail reports and
the address book, then writes the numbered page files, the message list, the
missing-contacts list and the searchable HTML report. With dispatch enabled the
message list, missing-contacts list and report are copied to the OneDrive folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := appConfig
			logger := observability.GetLogger()

			m, _, err := runMerge(ctx, cfg)
			if err != nil {
				return err
			}
			if _, err := m.ExportPages(ctx, cfg.Output.Dir, cfg.Output.PageSize); err != nil {
				return err
			}
			if _, err := m.ExportMessages(ctx, cfg.Output.Dir, cfg.Output.MessagesFile); err != nil {
				return err
			}
			if _, err := m.ExportMissing(ctx, cfg.Output.Dir, cfg.Output.MissingFile); err != nil {
				return err
			}
			if !skipReport {
				if err := writeHTMLReport(buildReport(m), cfg.ReportPath()); err != nil {
					return err
				}
				logger.Info("report written", zap.String("path", cfg.ReportPath()))
			}

			summary := m.Summary()
			if !skipReport {
				summary.Artifacts = append(summary.Artifacts, cfg.ReportPath())
			}
			printSummary(cmd.OutOrStdout(), summary)

			result, err := dispatch.Run(ctx, dispatch.OptionsFromConfig(cfg), dispatch.Sources(cfg, !skipReport), logger)
			if err != nil {
				return err
			}
			printDispatch(cmd, result)
			return nil
		},
	}

	cmd.Flags().Int("page-size", 0, "people per page file")
	cmd.Flags().String("output-dir", "", "directory for the page and message files")
	cmd.Flags().Bool("dispatch", false, "copy the artifacts to the OneDrive folder")
	cmd.Flags().BoolVar(&skipReport, "no-report", false, "skip the HTML report")
	_ = overrides.BindPFlag("output.page_size", cmd.Flags().Lookup("page-size"))
	_ = overrides.BindPFlag("output.dir", cmd.Flags().Lookup("output-dir"))
	_ = overrides.BindPFlag("dispatch.enabled", cmd.Flags().Lookup("dispatch"))
	return cmd
}

func printDispatch(cmd *cobra.Command, result *dispatch.Result) {
	w := cmd.OutOrStdout()
	if result.Skipped != "" {
		fmt.Fprintf(w, "Dispatch: %s\n", result.Skipped)
		return
	}
	for _, path := range result.Copied {
		fmt.Fprintf(w, "%s %s\n", color.GreenString("copied"), path)
	}
	for _, path := range result.Missing {
		fmt.Fprintf(w, "%s %s\n", color.RedString("missing"), path)
	}
}
