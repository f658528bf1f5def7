// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"encoding/json"
	"testing"

	"irmas-audit/internal/findings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesOnce(t *testing.T) {
	r := New()
	a := r.Ensure("王小明")
	b := r.Ensure("王小明")
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "王小明", a.Name())
	assert.Empty(t, a.Antivirus)
	assert.NotNil(t, a.Antivirus)
	assert.Equal(t, "", a.Message)
}

func TestRawNameIsTheKey(t *testing.T) {
	r := New()
	r.Ensure("陳大文")
	r.Ensure("陳大文 ")
	assert.Equal(t, 2, r.Len(), "registry keys are not normalized")
}

func TestAccumulatesAcrossCategories(t *testing.T) {
	r := New()
	r.AddAntivirus(findings.NewAntivirusFinding(findings.Device{User: "A", ComputerName: "PC1"}, "10.0.0.1", "10.0.0.3"))
	r.AddBanned(findings.BannedSoftwareFinding{Device: findings.Device{User: "A"}, SoftwareName: "BitTorrent"})
	r.AddOutdated(findings.OutdatedSoftwareFinding{Name: "A", Software: "7-Zip"})
	r.AddAntivirus(findings.NewAntivirusFinding(findings.Device{User: "A", ComputerName: "PC2"}, "10.0.0.3", "10.0.0.3"))
	r.Add(findings.OutdatedSoftwareFinding{Name: "B", Software: "Chrome"})

	a, ok := r.Get("A")
	require.True(t, ok)
	require.Len(t, a.Antivirus, 2)
	assert.Equal(t, "PC1", a.Antivirus[0].ComputerName)
	assert.Equal(t, "PC2", a.Antivirus[1].ComputerName)
	assert.Len(t, a.BannedSoftwares, 1)
	assert.Len(t, a.OutdatedSoftwares, 1)
	assert.Len(t, a.WrongAntivirus(), 1)

	b, ok := r.Get("B")
	require.True(t, ok)
	assert.Empty(t, b.Antivirus)
	assert.Empty(t, b.BannedSoftwares)
	assert.Len(t, b.OutdatedSoftwares, 1)
	assert.True(t, b.HasFindings())
}

func TestOrdering(t *testing.T) {
	r := New()
	for _, name := range []string{"林", "B", "陳", "A", "b"} {
		r.Ensure(name)
	}
	assert.Equal(t, []string{"林", "B", "陳", "A", "b"}, r.Names())
	assert.Equal(t, []string{"A", "B", "b", "林", "陳"}, r.SortedNames())

	sorted := r.Sorted()
	require.Len(t, sorted, 5)
	assert.Equal(t, "A", sorted[0].Name())
	assert.Equal(t, "陳", sorted[4].Name())
}

func TestPersonRecordJSON(t *testing.T) {
	r := New()
	rec := r.Ensure("A")
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"antivirus":[],"bannedSoftwares":[],"outdatedSoftwares":[],"message":"","contact":null}`, string(data))
}
