// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"irmas-audit/internal/findings"
	"irmas-audit/internal/jsonfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedIP = "10.173.105.3"

func decodeAntivirus(t *testing.T, doc string) AntivirusDocument {
	t.Helper()
	var d AntivirusDocument
	require.NoError(t, json.Unmarshal([]byte(doc), &d))
	return d
}

func TestAntivirusDocumentKeepsOrder(t *testing.T) {
	doc := decodeAntivirus(t, `{
		"10.173.105.9": {"count": 1, "detail": {"value": "10.173.105.9", "items": []}},
		"10.173.105.1": {"count": 0},
		"10.173.105.5": {"count": 2, "detail": null},
		"10.173.105.7": "garbage",
		"10.173.105.8": {"count": 1, "detail": "not-an-object"}
	}`)
	require.Len(t, doc, 5)
	assert.Equal(t, "10.173.105.9", doc[0].ReportedIP)
	assert.Equal(t, "10.173.105.1", doc[1].ReportedIP)
	assert.Equal(t, json.Number("1"), doc[0].Count)
	assert.NotNil(t, doc[0].Detail)
	assert.Nil(t, doc[1].Detail)
	assert.Nil(t, doc[2].Detail)
	assert.Nil(t, doc[3].Detail)
	assert.Nil(t, doc[4].Detail)
}

func TestAntivirusDocumentDuplicateKey(t *testing.T) {
	doc := decodeAntivirus(t, `{"a": {"count": 1}, "b": {"count": 2}, "a": {"count": 3}}`)
	require.Len(t, doc, 2)
	assert.Equal(t, "a", doc[0].ReportedIP)
	assert.Equal(t, json.Number("3"), doc[0].Count)
}

func TestAntivirusDocumentRejectsArray(t *testing.T) {
	var d AntivirusDocument
	assert.Error(t, json.Unmarshal([]byte(`[]`), &d))
}

func TestIngestAntivirusExample(t *testing.T) {
	doc := decodeAntivirus(t, `{"10.173.105.5": {"detail": {"items": [{"使用者": "A", "電腦名稱": "PC1", "IP位址": "10.173.105.5"}]}}}`)

	got, stats := IngestAntivirus(doc, expectedIP)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].User)
	assert.Equal(t, "PC1", got[0].ComputerName)
	assert.Equal(t, "10.173.105.5", got[0].ReportedIP)
	assert.Equal(t, expectedIP, got[0].ExpectedIP)
	assert.Equal(t, findings.StatusWrong, got[0].Status)
	assert.Equal(t, Stats{Groups: 1, Accepted: 1}, stats)
}

func TestIngestAntivirusSkips(t *testing.T) {
	doc := decodeAntivirus(t, `{
		"10.173.105.3": {"detail": {"items": [
			{"使用者": "B", "電腦名稱": "PC2"},
			{"電腦名稱": "NOBODY"},
			{"使用者": ""},
			{"使用者": 42},
			"not-an-object"
		]}},
		"10.173.105.4": {"count": 0}
	}`)

	got, stats := IngestAntivirus(doc, expectedIP)
	require.Len(t, got, 2)
	assert.Equal(t, findings.StatusCorrect, got[0].Status)
	assert.Equal(t, "42", got[1].User)
	assert.Equal(t, 3, stats.SkippedRecords)
	assert.Equal(t, 1, stats.SkippedGroups)
	assert.Equal(t, 2, stats.Groups)
}

func TestIngestAntivirusExpectedIPIsAParameter(t *testing.T) {
	doc := decodeAntivirus(t, `{"10.0.0.1": {"detail": {"items": [{"使用者": "A"}]}}}`)

	strict, _ := IngestAntivirus(doc, "10.0.0.2")
	lenient, _ := IngestAntivirus(doc, "10.0.0.1")
	assert.Equal(t, findings.StatusWrong, strict[0].Status)
	assert.Equal(t, findings.StatusCorrect, lenient[0].Status)
}

func TestIngestBanned(t *testing.T) {
	var doc BannedDocument
	require.NoError(t, json.Unmarshal([]byte(`[
		{"value": "BitTorrent", "items": [
			{"使用者": "A", "電腦名稱": "PC1", "IP位址": "10.1.1.1", "extra": "dropped"},
			{"電腦名稱": "PC9"}
		]},
		{"value": "TeamViewer", "items": [{"使用者": "A", "電腦名稱": "PC1"}]},
		{"value": "Empty"}
	]`), &doc))

	got, stats := IngestBanned(doc)
	require.Len(t, got, 2)
	assert.Equal(t, "BitTorrent", got[0].SoftwareName)
	assert.Equal(t, "TeamViewer", got[1].SoftwareName)
	assert.Equal(t, "10.1.1.1", got[0].IP)
	assert.Equal(t, 1, stats.SkippedRecords)
	assert.Equal(t, 3, stats.Groups)
}

func TestIngestKeepsNonStringColumns(t *testing.T) {
	var banned BannedDocument
	require.NoError(t, json.Unmarshal([]byte(`[
		{"value": "BT", "items": [{"使用者": "A", "電腦名稱": "PC1", "IP位址": "10.0.0.1", "資產ID": 12345, "PC明細連結": null, "作業系統": ["x"], "場域名稱": true}]}
	]`), &banned))

	got, stats := IngestBanned(banned)
	require.Len(t, got, 1)
	assert.Equal(t, Stats{Groups: 1, Accepted: 1}, stats)
	assert.Equal(t, "A", got[0].User)
	assert.Equal(t, "12345", got[0].AssetID)
	assert.Equal(t, "true", got[0].Site)
	assert.Equal(t, "", got[0].OS)
	assert.Nil(t, got[0].DetailLink)

	var outdated OutdatedDocument
	require.NoError(t, json.Unmarshal([]byte(`[
		{"IP位址": "10.1.1.1", "Name": "C", "Dept": 7, "Software": "7-Zip", "Installed": 19.00, "Required": 23.1, "SourceFile": "7zip.json"}
	]`), &outdated))

	rows, stats := IngestOutdated(outdated)
	require.Len(t, rows, 1)
	assert.Zero(t, stats.SkippedRecords)
	assert.Equal(t, "19.00", rows[0].Installed)
	assert.Equal(t, "23.1", rows[0].Required)
	assert.Equal(t, "7", rows[0].Dept)
}

func TestIngestOutdated(t *testing.T) {
	var doc OutdatedDocument
	require.NoError(t, json.Unmarshal([]byte(`[
		{"IP位址": "10.1.1.1", "Name": "C", "Dept": null, "Software": "7-Zip 19.00", "Installed": "19.00", "Required": "23.01", "SourceFile": "7zip.json"},
		{"IP位址": "10.1.1.2", "使用者": "not-the-outdated-key"},
		{"Name": ""}
	]`), &doc))

	got, stats := IngestOutdated(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Name)
	assert.Equal(t, "", got[0].Dept)
	assert.Equal(t, "23.01", got[0].Required)
	assert.Equal(t, 2, stats.SkippedRecords)
}

func TestLoadersReportMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadAntivirus(filepath.Join(dir, "a.json"))
	assert.True(t, errors.Is(err, jsonfile.ErrMissingInput))
	_, err = LoadBanned(filepath.Join(dir, "b.json"))
	assert.True(t, errors.Is(err, jsonfile.ErrMissingInput))
	_, err = LoadOutdated(filepath.Join(dir, "c.json"))
	assert.True(t, errors.Is(err, jsonfile.ErrMissingInput))
}

func TestLoadAntivirusWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "antivirus.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"count": 1}]`), 0600))
	_, err := LoadAntivirus(path)
	assert.True(t, errors.Is(err, jsonfile.ErrMalformedDocument))
}

func TestStatsAdd(t *testing.T) {
	s := Stats{Groups: 1, Accepted: 2}
	s.Add(Stats{Groups: 2, SkippedGroups: 1, Accepted: 3, SkippedRecords: 4})
	assert.Equal(t, Stats{Groups: 3, SkippedGroups: 1, Accepted: 5, SkippedRecords: 4}, s)
}
