// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ingest projects the three scraped detail reports into findings.
//
// The upstream tables disagree on nesting and on the person column (使用者
// versus Name); everything past this package sees findings only. Records
// that are not objects or have no person are counted and skipped. Other
// columns never cause a skip: numbers and booleans keep their literal text.
package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"irmas-audit/internal/findings"
)

// Stats counts what an ingestor accepted and skipped.
type Stats struct {
	Groups         int `json:"groups"`
	SkippedGroups  int `json:"skippedGroups"`
	Accepted       int `json:"accepted"`
	SkippedRecords int `json:"skippedRecords"`
}

// Add folds o into s.
func (s *Stats) Add(o Stats) {
	s.Groups += o.Groups
	s.SkippedGroups += o.SkippedGroups
	s.Accepted += o.Accepted
	s.SkippedRecords += o.SkippedRecords
}

// row is one scraped table row keyed by column header.
type row map[string]json.RawMessage

func decodeRow(raw json.RawMessage) (row, bool) {
	var r row
	if err := json.Unmarshal(raw, &r); err != nil || r == nil {
		return nil, false
	}
	return r, true
}

// cell returns the column as text. Null, absent, object and array cells
// report false.
func (r row) cell(column string) (string, bool) {
	raw, ok := r[column]
	if !ok {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func (r row) text(column string) string {
	s, _ := r.cell(column)
	return s
}

func decodeDevice(raw json.RawMessage) (findings.Device, bool) {
	r, ok := decodeRow(raw)
	if !ok {
		return findings.Device{}, false
	}
	device := findings.Device{
		IP:           r.text("IP位址"),
		ComputerName: r.text("電腦名稱"),
		AssetID:      r.text("資產ID"),
		User:         r.text("使用者"),
		OS:           r.text("作業系統"),
		Site:         r.text("場域名稱"),
		UpdatedAt:    r.text("更新時間"),
	}
	if link, ok := r.cell("PC明細連結"); ok {
		device.DetailLink = &link
	}
	return device, device.User != ""
}

func decodeOutdated(raw json.RawMessage) (findings.OutdatedSoftwareFinding, bool) {
	r, ok := decodeRow(raw)
	if !ok {
		return findings.OutdatedSoftwareFinding{}, false
	}
	f := findings.OutdatedSoftwareFinding{
		IP:         r.text("IP位址"),
		Name:       r.text("Name"),
		Dept:       r.text("Dept"),
		Software:   r.text("Software"),
		Installed:  r.text("Installed"),
		Required:   r.text("Required"),
		SourceFile: r.text("SourceFile"),
	}
	return f, f.Name != ""
}

// IngestAntivirus flattens the server-IP buckets. Each device is marked
// correct when its bucket equals expectedIP.
func IngestAntivirus(doc AntivirusDocument, expectedIP string) ([]findings.AntivirusFinding, Stats) {
	var stats Stats
	out := []findings.AntivirusFinding{}
	for _, bucket := range doc {
		stats.Groups++
		if bucket.Detail == nil {
			stats.SkippedGroups++
			continue
		}
		for _, raw := range bucket.Detail.Items {
			device, ok := decodeDevice(raw)
			if !ok {
				stats.SkippedRecords++
				continue
			}
			out = append(out, findings.NewAntivirusFinding(device, bucket.ReportedIP, expectedIP))
			stats.Accepted++
		}
	}
	return out, stats
}

// IngestBanned tags every device with the banned-software label it was
// listed under.
func IngestBanned(doc BannedDocument) ([]findings.BannedSoftwareFinding, Stats) {
	var stats Stats
	out := []findings.BannedSoftwareFinding{}
	for _, entry := range doc {
		stats.Groups++
		for _, raw := range entry.Items {
			device, ok := decodeDevice(raw)
			if !ok {
				stats.SkippedRecords++
				continue
			}
			out = append(out, findings.BannedSoftwareFinding{Device: device, SoftwareName: entry.Value})
			stats.Accepted++
		}
	}
	return out, stats
}

// IngestOutdated decodes the flat outdated-software rows.
func IngestOutdated(doc OutdatedDocument) ([]findings.OutdatedSoftwareFinding, Stats) {
	var stats Stats
	out := []findings.OutdatedSoftwareFinding{}
	for _, raw := range doc {
		f, ok := decodeOutdated(raw)
		if !ok {
			stats.SkippedRecords++
			continue
		}
		out = append(out, f)
		stats.Accepted++
	}
	return out, stats
}
