// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"irmas-audit/internal/formatters"
	"irmas-audit/internal/formatters/shared"

	"github.com/fatih/color"
	"golang.org/x/text/width"
)

// nameColumn is the display width of the NAME column; CJK characters count
// as two columns.
const nameColumn = 16

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable per-person summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder
	people := report.Visible(options)
	if len(people) == 0 {
		builder.WriteString("No people to report.\n")
		f.appendTotals(&builder, report, options)
		return builder.String(), nil
	}

	f.appendHeaders(&builder, options)
	for _, p := range people {
		f.appendSummaryLine(&builder, p, options)
	}

	if options.Verbose {
		builder.WriteString("\n")
		f.appendDetails(&builder, report, options)
	}

	builder.WriteString("\n")
	f.appendTotals(&builder, report, options)
	return builder.String(), nil
}

func (f *Formatter) paint(name string, options formatters.FormatterOptions, format string, args ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return f.colors[name].Sprintf(format, args...)
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, options formatters.FormatterOptions) {
	header := fmt.Sprintf("%-10s %s %-9s %-7s %-9s %s\n",
		"STATUS", pad("NAME", nameColumn), "ANTIVIRUS", "BANNED", "OUTDATED", "CONTACT")
	builder.WriteString(f.paint("white", options, "%s", header))
	builder.WriteString(f.paint("white", options, "%s\n", strings.Repeat("-", 10+1+nameColumn+1+9+1+7+1+9+1+7)))
}

// appendSummaryLine adds a single line per person
func (f *Formatter) appendSummaryLine(builder *strings.Builder, p formatters.PersonView, options formatters.FormatterOptions) {
	var status string
	if p.HasIssues() {
		status = f.paint("red", options, "[%-8s]", "ACTION")
	} else {
		status = f.paint("green", options, "[%-8s]", "OK")
	}

	antivirus := fmt.Sprintf("%d/%d", p.WrongAntivirus, len(p.Antivirus))
	antivirusStr := fmt.Sprintf("%-9s", antivirus)
	if p.WrongAntivirus > 0 {
		antivirusStr = f.paint("red", options, "%-9s", antivirus)
	}
	bannedStr := fmt.Sprintf("%-7d", len(p.Banned))
	if len(p.Banned) > 0 {
		bannedStr = f.paint("magenta", options, "%-7d", len(p.Banned))
	}
	outdatedStr := fmt.Sprintf("%-9d", len(p.Outdated))
	if len(p.Outdated) > 0 {
		outdatedStr = f.paint("yellow", options, "%-9d", len(p.Outdated))
	}

	contact := p.Email
	if !p.HasContact {
		contact = f.paint("red", options, "%s", "MISSING")
	} else if contact == "" {
		contact = "-"
	}

	fmt.Fprintf(builder, "%s %s %s %s %s %s\n",
		status,
		f.paint("cyan", options, "%s", pad(p.Name, nameColumn)),
		antivirusStr,
		bannedStr,
		outdatedStr,
		contact)
}

// appendDetails lists every finding row.
func (f *Formatter) appendDetails(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	builder.WriteString(f.paint("white", options, "%s\n", "=== Findings ==="))
	for _, row := range shared.FlattenRows(report, options) {
		statusColor := "green"
		switch row.Status {
		case shared.StatusWrong, shared.StatusBanned:
			statusColor = "red"
		case shared.StatusOutdated:
			statusColor = "yellow"
		}
		line := fmt.Sprintf("%s %s %-17s %s", pad(row.Name, nameColumn), f.paint(statusColor, options, "%-8s", row.Status), string(row.Category), row.Item)
		if row.Computer != "" {
			line += " on " + row.Computer
		}
		if row.IP != "" {
			line += " (" + row.IP + ")"
		}
		if row.Detail != "" {
			line += ", " + row.Detail
		}
		builder.WriteString(line + "\n")
	}
}

func (f *Formatter) appendTotals(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	t := report.Totals
	fmt.Fprintf(builder, "%s %d people, %s wrong antivirus check-ins, %s banned installs, %s outdated installs, %s without contact\n",
		f.paint("white", options, "%s", "Summary:"),
		t.People,
		f.paint("red", options, "%d", t.WrongAntivirus),
		f.paint("magenta", options, "%d", t.Banned),
		f.paint("yellow", options, "%d", t.Outdated),
		f.paint("red", options, "%d", t.MissingContacts))
	fmt.Fprintf(builder, "Generated at %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
}

// pad right-pads s to cols display columns, truncating with "..." when longer.
func pad(s string, cols int) string {
	runes := []rune(s)
	used := 0
	for i, r := range runes {
		w := runeWidth(r)
		if used+w > cols {
			cut := string(runes[:i])
			for displayWidth(cut)+3 > cols && len(cut) > 0 {
				cut = string([]rune(cut)[:len([]rune(cut))-1])
			}
			cut += "..."
			return cut + strings.Repeat(" ", cols-displayWidth(cut))
		}
		used += w
	}
	return s + strings.Repeat(" ", cols-used)
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
