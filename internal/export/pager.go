// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package export paginates the merged people view and writes the dispatch
// artifacts.
package export

import (
	"bytes"
	"encoding/json"

	"irmas-audit/internal/addressbook"
	"irmas-audit/internal/registry"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// Pager slices a registry into pages ordered by raw name.
type Pager struct {
	reg *registry.Registry
}

// NewPager returns a pager over reg. The registry must not change while
// pages are being taken.
func NewPager(reg *registry.Registry) *Pager {
	return &Pager{reg: reg}
}

// Page is one slice of the people view.
type Page struct {
	People     []*registry.PersonRecord
	Number     int
	PageSize   int
	TotalPages int
}

// TotalPages returns ceil(people / size). It returns 0 for a non-positive size.
func (p *Pager) TotalPages(size int) int {
	if size <= 0 {
		return 0
	}
	count := p.reg.Len()
	total := count / size
	if count%size != 0 {
		total++
	}
	return total
}

// Page returns page n (1-based) of the given size. Pages past the last one
// are empty but still carry the correct totals.
func (p *Pager) Page(n, size int) (*Page, error) {
	if size <= 0 {
		return nil, &PaginationError{Page: n, PageSize: size, Err: ErrInvalidPageSize}
	}
	if n < 1 {
		return nil, &PaginationError{Page: n, PageSize: size, Err: ErrInvalidPageNumber}
	}

	sorted := p.reg.Sorted()
	page := &Page{
		People:     []*registry.PersonRecord{},
		Number:     n,
		PageSize:   size,
		TotalPages: p.TotalPages(size),
	}

	// n-1 < TotalPages keeps (n-1)*size below the people count.
	if n-1 >= page.TotalPages {
		return page, nil
	}
	start := (n - 1) * size
	end := len(sorted)
	if size < end-start {
		end = start + size
	}
	page.People = sorted[start:end]
	return page, nil
}

// MessageEntry is one row of the flat message list.
type MessageEntry struct {
	Name    string             `json:"name"`
	Message string             `json:"message"`
	Contact *addressbook.Entry `json:"contact"`
}

// Messages returns every person's message in sorted name order.
func (p *Pager) Messages() []MessageEntry {
	sorted := p.reg.Sorted()
	out := make([]MessageEntry, len(sorted))
	for i, rec := range sorted {
		out[i] = MessageEntry{Name: rec.Name(), Message: rec.Message, Contact: rec.Contact}
	}
	return out
}

// MarshalJSON writes people as an object whose members keep page order.
func (pg *Page) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"people":{`)
	for i, rec := range pg.People {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRaw(&buf, rec.Name()); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeRaw(&buf, rec); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`},"page":`)
	if err := encodeRaw(&buf, pg.Number); err != nil {
		return nil, err
	}
	buf.WriteString(`,"pageSize":`)
	if err := encodeRaw(&buf, pg.PageSize); err != nil {
		return nil, err
	}
	buf.WriteString(`,"totalPages":`)
	if err := encodeRaw(&buf, pg.TotalPages); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Names returns the raw names on the page, in order.
func (pg *Page) Names() []string {
	names := make([]string, len(pg.People))
	for i, rec := range pg.People {
		names[i] = rec.Name()
	}
	return names
}

func encodeRaw(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
