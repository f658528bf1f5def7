// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package merger runs one reconciliation pass: it loads the scraped reports
// and the address book, builds the per-person view and writes the dispatch
// artifacts.
package merger

import (
	"context"
	"errors"
	"path/filepath"

	"irmas-audit/internal/addressbook"
	"irmas-audit/internal/config"
	"irmas-audit/internal/export"
	"irmas-audit/internal/findings"
	"irmas-audit/internal/ingest"
	"irmas-audit/internal/message"
	"irmas-audit/internal/observability"
	"irmas-audit/internal/reconcile"
	"irmas-audit/internal/registry"

	"go.uber.org/zap"
)

// ErrReportsNotLoaded is returned by Process before LoadReports succeeded.
var ErrReportsNotLoaded = errors.New("detail reports have not been loaded")

// Options locates the inputs of a run.
type Options struct {
	BaseDir             string
	AntivirusFile       string
	BannedFile          string
	OutdatedFile        string
	ExpectedAntivirusIP string
}

// OptionsFromConfig maps the inputs and policy sections onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseDir:             cfg.Inputs.BaseDir,
		AntivirusFile:       cfg.Inputs.AntivirusFile,
		BannedFile:          cfg.Inputs.BannedFile,
		OutdatedFile:        cfg.Inputs.OutdatedFile,
		ExpectedAntivirusIP: cfg.Policy.ExpectedAntivirusIP,
	}
}

// RunSummary describes what a run consumed and produced.
type RunSummary struct {
	RunID           string                             `json:"runId"`
	People          int                                `json:"people"`
	Findings        map[findings.Category]int          `json:"findings"`
	WrongAntivirus  int                                `json:"wrongAntivirus"`
	Ingest          map[findings.Category]ingest.Stats `json:"ingest"`
	IngestTotal     ingest.Stats                       `json:"ingestTotal"`
	MissingContacts int                                `json:"missingContacts"`
	Collisions      []string                           `json:"collisions,omitempty"`
	Artifacts       []string                           `json:"artifacts"`
}

// Merger owns the state of a single run. It is not safe for concurrent use.
type Merger struct {
	opts     Options
	observer *observability.StandardObserver
	logger   *zap.Logger

	antivirus ingest.AntivirusDocument
	banned    ingest.BannedDocument
	outdated  ingest.OutdatedDocument
	loaded    bool

	index *addressbook.Index

	reg     *registry.Registry
	missing reconcile.MissingContacts
	summary RunSummary
}

// New returns a merger logging through logger.
func New(opts Options, logger *zap.Logger) *Merger {
	obs := observability.NewStandardObserver(logger)
	return &Merger{
		opts:     opts,
		observer: obs,
		logger:   obs.Logger().Named("merger"),
		reg:      registry.New(),
		summary: RunSummary{
			RunID:     obs.RunID(),
			Findings:  map[findings.Category]int{},
			Ingest:    map[findings.Category]ingest.Stats{},
			Artifacts: []string{},
		},
	}
}

// LoadReports reads the three detail reports from the base directory.
func (m *Merger) LoadReports(ctx context.Context) error {
	steps := []struct {
		file string
		load func(path string) error
	}{
		{m.opts.AntivirusFile, func(path string) (err error) {
			m.antivirus, err = ingest.LoadAntivirus(path)
			return err
		}},
		{m.opts.BannedFile, func(path string) (err error) {
			m.banned, err = ingest.LoadBanned(path)
			return err
		}},
		{m.opts.OutdatedFile, func(path string) (err error) {
			m.outdated, err = ingest.LoadOutdated(path)
			return err
		}},
	}

	m.loaded = false
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(m.opts.BaseDir, step.file)
		done := m.observer.StartTiming("merger", "load_report", path)
		if err := step.load(path); err != nil {
			done(false, map[string]interface{}{"error": err.Error()})
			return err
		}
		done(true, nil)
	}
	m.loaded = true
	return nil
}

// LoadAddressBook reads the address book. Absolute paths and paths starting
// with "." are used as given; anything else is resolved against the base
// directory.
func (m *Merger) LoadAddressBook(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resolved := config.ResolveInput(m.opts.BaseDir, path)
	done := m.observer.StartTiming("merger", "load_address_book", resolved)

	entries, err := addressbook.Load(resolved)
	if err != nil {
		done(false, map[string]interface{}{"error": err.Error()})
		return err
	}
	m.index = addressbook.BuildIndex(entries)
	done(true, map[string]interface{}{"entries": len(entries), "keys": m.index.Len()})

	if collisions := m.index.Collisions(); len(collisions) > 0 {
		m.logger.Warn("address book has duplicate names, later entries win",
			zap.Int("count", len(collisions)), zap.Strings("names", collisions))
	}
	return nil
}

// Process ingests the loaded reports into a fresh registry, reconciles it
// with the address book and synthesizes every message. Without an address
// book every person is reported missing.
func (m *Merger) Process(ctx context.Context) (*RunSummary, error) {
	if !m.loaded {
		return nil, ErrReportsNotLoaded
	}
	m.reg = registry.New()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	done := m.observer.StartTiming("merger", "ingest", "")
	av, avStats := ingest.IngestAntivirus(m.antivirus, m.opts.ExpectedAntivirusIP)
	for _, f := range av {
		m.reg.Add(f)
	}
	banned, bannedStats := ingest.IngestBanned(m.banned)
	for _, f := range banned {
		m.reg.Add(f)
	}
	outdated, outdatedStats := ingest.IngestOutdated(m.outdated)
	for _, f := range outdated {
		m.reg.Add(f)
	}
	done(true, map[string]interface{}{"people": m.reg.Len()})

	m.summary.Ingest[findings.CategoryAntivirus] = avStats
	m.summary.Ingest[findings.CategoryBanned] = bannedStats
	m.summary.Ingest[findings.CategoryOutdated] = outdatedStats
	m.summary.IngestTotal = ingest.Stats{}
	for _, category := range []findings.Category{findings.CategoryAntivirus, findings.CategoryBanned, findings.CategoryOutdated} {
		stats := m.summary.Ingest[category]
		m.summary.IngestTotal.Add(stats)
		if stats.SkippedRecords > 0 || stats.SkippedGroups > 0 {
			m.logger.Info("skipped unusable records",
				zap.String("category", string(category)),
				zap.Int("groups", stats.SkippedGroups),
				zap.Int("records", stats.SkippedRecords))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.missing = reconcile.AttachContacts(m.reg, m.index)
	message.Apply(m.reg)

	m.summary.People = m.reg.Len()
	m.summary.Findings[findings.CategoryAntivirus] = len(av)
	m.summary.Findings[findings.CategoryBanned] = len(banned)
	m.summary.Findings[findings.CategoryOutdated] = len(outdated)
	m.summary.WrongAntivirus = 0
	for _, f := range av {
		if f.IsWrong() {
			m.summary.WrongAntivirus++
		}
	}
	m.summary.MissingContacts = len(m.missing.Sorted())
	m.summary.Collisions = m.index.Collisions()

	m.logger.Info("merge complete",
		zap.Int("people", m.summary.People),
		zap.Int("wrong_antivirus", m.summary.WrongAntivirus),
		zap.Int("missing_contacts", m.summary.MissingContacts))
	return m.Summary(), nil
}

// Registry returns the people view built by the last Process call.
func (m *Merger) Registry() *registry.Registry { return m.reg }

// Missing returns the names that had no address-book match.
func (m *Merger) Missing() reconcile.MissingContacts { return m.missing }

// Pager returns a pager over the current people view.
func (m *Merger) Pager() *export.Pager { return export.NewPager(m.reg) }

// Summary returns a copy of the run summary.
func (m *Merger) Summary() *RunSummary {
	s := m.summary
	s.Artifacts = append([]string(nil), m.summary.Artifacts...)
	return &s
}

// ExportPages writes one file per page of the given size into dir.
func (m *Merger) ExportPages(ctx context.Context, dir string, size int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	done := m.observer.StartTiming("export", "pages", dir)
	written, err := m.Pager().ExportPages(dir, size)
	m.summary.Artifacts = append(m.summary.Artifacts, written...)
	if err != nil {
		done(false, map[string]interface{}{"error": err.Error()})
		return written, err
	}
	done(true, map[string]interface{}{"pages": len(written)})
	m.logger.Info("pages exported", zap.Int("pages", len(written)), zap.String("dir", dir))
	return written, nil
}

// ExportMessages writes the flat message list into dir.
func (m *Merger) ExportMessages(ctx context.Context, dir, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := m.Pager().ExportMessages(dir, filename)
	if err != nil {
		return "", err
	}
	m.summary.Artifacts = append(m.summary.Artifacts, path)
	return path, nil
}

// ExportMissing writes the missing-contacts list into dir.
func (m *Merger) ExportMissing(ctx context.Context, dir, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := export.ExportMissing(m.missing, dir, filename)
	if err != nil {
		return "", err
	}
	m.summary.Artifacts = append(m.summary.Artifacts, path)
	if m.summary.MissingContacts > 0 {
		m.logger.Warn("people without contact", zap.Int("count", m.summary.MissingContacts), zap.String("file", path))
	}
	return path, nil
}
