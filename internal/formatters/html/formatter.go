// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package html

import (
	_ "embed"
	"html/template"
	"strings"

	"irmas-audit/internal/formatters"
)

//go:embed report.html.tmpl
var reportTemplate string

var page = template.Must(template.New("report").Parse(reportTemplate))

// Formatter renders a standalone searchable HTML page.
type Formatter struct{}

// NewFormatter creates a new HTML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "html"
}

func (f *Formatter) Description() string {
	return "Searchable, collapsible HTML report page"
}

func (f *Formatter) FileExtension() string {
	return ".html"
}

// Format renders the report. Every value is escaped by html/template.
func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	view := *report
	view.People = report.Visible(options)

	var b strings.Builder
	if err := page.Execute(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
