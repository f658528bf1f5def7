// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package registry accumulates findings per person for a single run.
//
// Records are keyed by the name exactly as scraped. Category joins therefore
// happen on raw-name equality; normalization is applied only when records are
// reconciled against the address book.
package registry

import (
	"sort"

	"irmas-audit/internal/addressbook"
	"irmas-audit/internal/findings"
)

// PersonRecord is everything known about one person in this run.
type PersonRecord struct {
	name string

	Antivirus         []findings.AntivirusFinding        `json:"antivirus"`
	BannedSoftwares   []findings.BannedSoftwareFinding   `json:"bannedSoftwares"`
	OutdatedSoftwares []findings.OutdatedSoftwareFinding `json:"outdatedSoftwares"`
	Message           string                             `json:"message"`
	Contact           *addressbook.Entry                 `json:"contact"`
}

// Name returns the raw name the record is keyed by.
func (p *PersonRecord) Name() string { return p.name }

// HasFindings reports whether any category is non-empty.
func (p *PersonRecord) HasFindings() bool {
	return len(p.Antivirus) > 0 || len(p.BannedSoftwares) > 0 || len(p.OutdatedSoftwares) > 0
}

// WrongAntivirus returns the antivirus findings with status "wrong", in order.
func (p *PersonRecord) WrongAntivirus() []findings.AntivirusFinding {
	var wrong []findings.AntivirusFinding
	for _, f := range p.Antivirus {
		if f.IsWrong() {
			wrong = append(wrong, f)
		}
	}
	return wrong
}

// Registry is an insertion-ordered map from raw name to record. It is not
// safe for concurrent mutation.
type Registry struct {
	order  []*PersonRecord
	byName map[string]*PersonRecord
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*PersonRecord)}
}

// Ensure returns the record for name, creating an empty one on first sight.
func (r *Registry) Ensure(name string) *PersonRecord {
	if rec, ok := r.byName[name]; ok {
		return rec
	}
	rec := &PersonRecord{
		name:              name,
		Antivirus:         []findings.AntivirusFinding{},
		BannedSoftwares:   []findings.BannedSoftwareFinding{},
		OutdatedSoftwares: []findings.OutdatedSoftwareFinding{},
	}
	r.byName[name] = rec
	r.order = append(r.order, rec)
	return rec
}

// AddAntivirus appends f to the record of the person it names.
func (r *Registry) AddAntivirus(f findings.AntivirusFinding) *PersonRecord {
	rec := r.Ensure(f.PersonName())
	rec.Antivirus = append(rec.Antivirus, f)
	return rec
}

// AddBanned appends f to the record of the person it names.
func (r *Registry) AddBanned(f findings.BannedSoftwareFinding) *PersonRecord {
	rec := r.Ensure(f.PersonName())
	rec.BannedSoftwares = append(rec.BannedSoftwares, f)
	return rec
}

// AddOutdated appends f to the record of the person it names.
func (r *Registry) AddOutdated(f findings.OutdatedSoftwareFinding) *PersonRecord {
	rec := r.Ensure(f.PersonName())
	rec.OutdatedSoftwares = append(rec.OutdatedSoftwares, f)
	return rec
}

// Add dispatches on the finding kind.
func (r *Registry) Add(f findings.Finding) *PersonRecord {
	switch v := f.(type) {
	case findings.AntivirusFinding:
		return r.AddAntivirus(v)
	case findings.BannedSoftwareFinding:
		return r.AddBanned(v)
	case findings.OutdatedSoftwareFinding:
		return r.AddOutdated(v)
	default:
		return nil
	}
}

// Get returns the record stored under the raw name.
func (r *Registry) Get(name string) (*PersonRecord, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

// Len returns the number of people.
func (r *Registry) Len() int { return len(r.order) }

// Records returns the records in first-seen order.
func (r *Registry) Records() []*PersonRecord {
	out := make([]*PersonRecord, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the raw names in first-seen order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, rec := range r.order {
		names[i] = rec.name
	}
	return names
}

// SortedNames returns the raw names ordered byte-wise. Keys are unique, so
// the order is total and identical across runs for the same input.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}

// Sorted returns the records in SortedNames order.
func (r *Registry) Sorted() []*PersonRecord {
	names := r.SortedNames()
	out := make([]*PersonRecord, len(names))
	for i, name := range names {
		out[i] = r.byName[name]
	}
	return out
}
