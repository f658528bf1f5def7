// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"irmas-audit/internal/config"
	"irmas-audit/internal/findings"
	"irmas-audit/internal/formatters"
	_ "irmas-audit/internal/formatters/csv"
	_ "irmas-audit/internal/formatters/html"
	_ "irmas-audit/internal/formatters/json"
	_ "irmas-audit/internal/formatters/text"
	_ "irmas-audit/internal/formatters/yaml"
	"irmas-audit/internal/merger"
	"irmas-audit/internal/observability"

	"github.com/fatih/color"
)

// runMerge loads every input named by cfg and builds the people view.
func runMerge(ctx context.Context, cfg *config.Config) (*merger.Merger, *merger.RunSummary, error) {
	m := merger.New(merger.OptionsFromConfig(cfg), observability.GetLogger())
	if err := m.LoadReports(ctx); err != nil {
		return nil, nil, err
	}
	if err := m.LoadAddressBook(ctx, cfg.Inputs.AddressBook); err != nil {
		return nil, nil, err
	}
	summary, err := m.Process(ctx)
	if err != nil {
		return nil, nil, err
	}
	return m, summary, nil
}

// buildReport snapshots m for the formatters.
func buildReport(m *merger.Merger) *formatters.Report {
	return formatters.BuildReport(m.Registry(), m.Missing().Sorted(), time.Now())
}

// writeHTMLReport renders the searchable report to path.
func writeHTMLReport(report *formatters.Report, path string) error {
	out, err := formatters.Export("html", report, formatters.FormatterOptions{})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func printSummary(w io.Writer, s *merger.RunSummary) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, "IRMAS merge summary")
	fmt.Fprintf(w, "  people:             %d\n", s.People)
	fmt.Fprintf(w, "  antivirus devices:  %d (%s wrong server)\n", s.Findings[findings.CategoryAntivirus], color.RedString("%d", s.WrongAntivirus))
	fmt.Fprintf(w, "  banned installs:    %s\n", color.MagentaString("%d", s.Findings[findings.CategoryBanned]))
	fmt.Fprintf(w, "  outdated installs:  %s\n", color.YellowString("%d", s.Findings[findings.CategoryOutdated]))
	if s.IngestTotal.SkippedRecords > 0 {
		fmt.Fprintf(w, "  skipped records:    %s\n", color.YellowString("%d", s.IngestTotal.SkippedRecords))
	}
	if s.MissingContacts > 0 {
		fmt.Fprintf(w, "  missing contacts:   %s\n", color.RedString("%d", s.MissingContacts))
	} else {
		fmt.Fprintf(w, "  missing contacts:   %s\n", color.GreenString("0"))
	}
	if len(s.Artifacts) > 0 {
		fmt.Fprintln(w, "  written:")
		for _, path := range s.Artifacts {
			fmt.Fprintf(w, "    %s\n", path)
		}
	}
}
