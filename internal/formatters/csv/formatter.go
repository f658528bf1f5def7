// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"strings"

	"irmas-audit/internal/formatters"
	"irmas-audit/internal/formatters/shared"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import, one row per finding"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

// Format writes one row per finding. Verbose adds the contact columns.
func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	// Excel needs the BOM to read UTF-8.
	b.WriteString("\ufeff")
	w := csv.NewWriter(&b)

	headers := []string{"Name", "Category", "Status", "Computer", "IP", "Item", "Detail"}
	if options.Verbose {
		headers = append(headers, "Email", "Department")
	}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	contacts := make(map[string]formatters.PersonView, len(report.People))
	for _, p := range report.People {
		contacts[p.Name] = p
	}

	for _, row := range shared.FlattenRows(report, options) {
		record := []string{row.Name, string(row.Category), row.Status, row.Computer, row.IP, row.Item, row.Detail}
		if options.Verbose {
			p := contacts[row.Name]
			record = append(record, p.Email, p.Department)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
