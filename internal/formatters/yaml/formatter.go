// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"irmas-audit/internal/formatters"
	"irmas-audit/internal/formatters/json"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct {
	json *json.Formatter
}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{json: json.NewFormatter()}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, 100% compatible with JSON structure"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

// Format renders the JSON document as block-style YAML. Going through JSON
// keeps the keys and their order identical to the json formatter.
func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	doc, err := f.json.Format(report, options)
	if err != nil {
		return "", err
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &node); err != nil {
		return "", fmt.Errorf("error converting report to YAML: %w", err)
	}
	clearStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(out), nil
}

// clearStyle drops the flow and quoting styles the JSON source implies. The
// encoder still quotes strings that would otherwise resolve to another type.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
