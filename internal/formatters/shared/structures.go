// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"fmt"

	"irmas-audit/internal/findings"
	"irmas-audit/internal/formatters"
)

// Row is one finding flattened for tabular output.
type Row struct {
	Name     string
	Category findings.Category
	Computer string
	IP       string
	Item     string
	Detail   string
	Status   string
}

// Status values used in rows.
const (
	StatusOK       = "OK"
	StatusWrong    = "WRONG"
	StatusBanned   = "BANNED"
	StatusOutdated = "OUTDATED"
)

// FlattenRows lists every finding of the visible people, person by person in
// report order and category by category within a person.
func FlattenRows(report *formatters.Report, options formatters.FormatterOptions) []Row {
	var rows []Row
	for _, p := range report.Visible(options) {
		for _, f := range p.Antivirus {
			if options.OnlyIssues && !f.IsWrong() {
				continue
			}
			status := StatusOK
			if f.IsWrong() {
				status = StatusWrong
			}
			rows = append(rows, Row{
				Name:     p.Name,
				Category: findings.CategoryAntivirus,
				Computer: f.ComputerName,
				IP:       f.IP,
				Item:     f.ReportedIP,
				Detail:   fmt.Sprintf("expected %s", f.ExpectedIP),
				Status:   status,
			})
		}
		for _, f := range p.Banned {
			rows = append(rows, Row{
				Name:     p.Name,
				Category: findings.CategoryBanned,
				Computer: f.ComputerName,
				IP:       f.IP,
				Item:     f.SoftwareName,
				Status:   StatusBanned,
			})
		}
		for _, f := range p.Outdated {
			rows = append(rows, Row{
				Name:     p.Name,
				Category: findings.CategoryOutdated,
				IP:       f.IP,
				Item:     f.Software,
				Detail:   fmt.Sprintf("%s < %s", f.Installed, f.Required),
				Status:   StatusOutdated,
			})
		}
	}
	return rows
}
