// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"irmas-audit/internal/jsonfile"
)

// AntivirusDocument is the antivirus detail report: server IP buckets in the
// order the portal listed them.
type AntivirusDocument []AntivirusBucket

// AntivirusBucket is one reported-server-IP entry.
type AntivirusBucket struct {
	ReportedIP string
	Count      json.Number
	// Detail is nil when the bucket had no detail table, or when the bucket
	// or its detail was not a JSON object.
	Detail *Detail
}

// Detail is a scraped device table.
type Detail struct {
	Value string            `json:"value"`
	Items []json.RawMessage `json:"items"`
}

// UnmarshalJSON decodes the object member by member so bucket order follows
// the document. A repeated key replaces the earlier bucket in place.
func (d *AntivirusDocument) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("antivirus document must be a JSON object")
	}

	var buckets []AntivirusBucket
	position := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected antivirus document key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		bucket := parseBucket(key, raw)
		if i, seen := position[key]; seen {
			buckets[i] = bucket
			continue
		}
		position[key] = len(buckets)
		buckets = append(buckets, bucket)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = buckets
	return nil
}

func parseBucket(reportedIP string, raw json.RawMessage) AntivirusBucket {
	bucket := AntivirusBucket{ReportedIP: reportedIP}

	var group struct {
		Count  json.RawMessage `json:"count"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &group); err != nil {
		return bucket
	}

	var count json.Number
	if err := json.Unmarshal(group.Count, &count); err == nil {
		bucket.Count = count
	}

	if len(group.Detail) == 0 || bytes.Equal(bytes.TrimSpace(group.Detail), []byte("null")) {
		return bucket
	}
	var detail Detail
	if err := json.Unmarshal(group.Detail, &detail); err != nil {
		return bucket
	}
	bucket.Detail = &detail
	return bucket
}

// BannedDocument is the banned-software detail report.
type BannedDocument []BannedEntry

// BannedEntry is one banned-software category and the devices it was found on.
type BannedEntry struct {
	Value string            `json:"value"`
	Items []json.RawMessage `json:"items"`
}

// OutdatedDocument is the flat outdated-software detail report.
type OutdatedDocument []json.RawMessage

// LoadAntivirus reads the antivirus detail report.
func LoadAntivirus(path string) (AntivirusDocument, error) {
	var doc AntivirusDocument
	if err := jsonfile.Read(path, jsonfile.KindAntivirus, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadBanned reads the banned-software detail report.
func LoadBanned(path string) (BannedDocument, error) {
	var doc BannedDocument
	if err := jsonfile.Read(path, jsonfile.KindBanned, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadOutdated reads the outdated-software detail report.
func LoadOutdated(path string) (OutdatedDocument, error) {
	var doc OutdatedDocument
	if err := jsonfile.Read(path, jsonfile.KindOutdated, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
