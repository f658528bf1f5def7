// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"irmas-audit/internal/formatters"
	"irmas-audit/internal/jsonfile"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// Format writes the report with the same encoding as the dispatch artifacts.
func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	view := *report
	view.People = report.Visible(options)
	if view.People == nil {
		view.People = []formatters.PersonView{}
	}
	data, err := jsonfile.Marshal(view)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
