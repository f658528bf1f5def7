// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"time"

	"irmas-audit/internal/findings"
	"irmas-audit/internal/registry"
)

// Report is the merged people view as the formatters see it.
type Report struct {
	GeneratedAt     time.Time    `json:"generatedAt"`
	Totals          Totals       `json:"totals"`
	People          []PersonView `json:"people"`
	MissingContacts []string     `json:"missingContacts"`
}

// Totals counts findings across everyone.
type Totals struct {
	People          int `json:"people"`
	Antivirus       int `json:"antivirus"`
	WrongAntivirus  int `json:"wrongAntivirus"`
	Banned          int `json:"bannedSoftwares"`
	Outdated        int `json:"outdatedSoftwares"`
	MissingContacts int `json:"missingContacts"`
}

// PersonView is one person with the contact fields reports show.
type PersonView struct {
	Name           string                             `json:"name"`
	HasContact     bool                               `json:"hasContact"`
	Email          string                             `json:"email,omitempty"`
	Department     string                             `json:"department,omitempty"`
	WrongAntivirus int                                `json:"wrongAntivirus"`
	Antivirus      []findings.AntivirusFinding        `json:"antivirus"`
	Banned         []findings.BannedSoftwareFinding   `json:"bannedSoftwares"`
	Outdated       []findings.OutdatedSoftwareFinding `json:"outdatedSoftwares"`
	Message        string                             `json:"message"`
}

// HasIssues reports whether the person needs to act on anything.
func (p PersonView) HasIssues() bool {
	return p.WrongAntivirus > 0 || len(p.Banned) > 0 || len(p.Outdated) > 0
}

// BuildReport snapshots reg in sorted name order.
func BuildReport(reg *registry.Registry, missing []string, generatedAt time.Time) *Report {
	if missing == nil {
		missing = []string{}
	}
	report := &Report{
		GeneratedAt:     generatedAt,
		People:          make([]PersonView, 0, reg.Len()),
		MissingContacts: missing,
	}

	for _, rec := range reg.Sorted() {
		view := PersonView{
			Name:           rec.Name(),
			HasContact:     rec.Contact != nil,
			WrongAntivirus: len(rec.WrongAntivirus()),
			Antivirus:      rec.Antivirus,
			Banned:         rec.BannedSoftwares,
			Outdated:       rec.OutdatedSoftwares,
			Message:        rec.Message,
		}
		if rec.Contact != nil {
			view.Email = deref(rec.Contact.Email)
			view.Department = deref(rec.Contact.Department)
		}
		report.People = append(report.People, view)

		report.Totals.Antivirus += len(view.Antivirus)
		report.Totals.WrongAntivirus += view.WrongAntivirus
		report.Totals.Banned += len(view.Banned)
		report.Totals.Outdated += len(view.Outdated)
	}
	report.Totals.People = len(report.People)
	report.Totals.MissingContacts = len(missing)
	return report
}

// Visible returns the people the options ask for.
func (r *Report) Visible(options FormatterOptions) []PersonView {
	if !options.OnlyIssues {
		return r.People
	}
	var out []PersonView
	for _, p := range r.People {
		if p.HasIssues() {
			out = append(out, p)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
