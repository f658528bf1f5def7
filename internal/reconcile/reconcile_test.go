// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"testing"

	"irmas-audit/internal/addressbook"
	"irmas-audit/internal/findings"
	"irmas-audit/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAttachContactsNormalizesLookup(t *testing.T) {
	reg := registry.New()
	reg.AddBanned(findings.BannedSoftwareFinding{Device: findings.Device{User: "陳大文 "}, SoftwareName: "X"})
	reg.AddOutdated(findings.OutdatedSoftwareFinding{Name: "李\u3000小明"})
	reg.AddOutdated(findings.OutdatedSoftwareFinding{Name: "王五"})

	idx := addressbook.BuildIndex([]addressbook.Entry{
		{FullName: strPtr("陳大文"), Email: strPtr("dawen@example.com")},
		{FullName: strPtr("李小明")},
	})

	missing := AttachContacts(reg, idx)
	assert.Equal(t, []string{"王五"}, missing.Sorted())

	rec, ok := reg.Get("陳大文 ")
	require.True(t, ok)
	require.NotNil(t, rec.Contact)
	assert.Equal(t, "dawen@example.com", *rec.Contact.Email)

	rec, _ = reg.Get("李\u3000小明")
	assert.NotNil(t, rec.Contact)

	rec, _ = reg.Get("王五")
	assert.Nil(t, rec.Contact)
}

func TestAttachContactsWithoutIndex(t *testing.T) {
	reg := registry.New()
	reg.Ensure("B")
	reg.Ensure("A")

	missing := AttachContacts(reg, nil)
	assert.Equal(t, []string{"A", "B"}, missing.Sorted())
}

func TestAttachContactsRecomputes(t *testing.T) {
	reg := registry.New()
	reg.Ensure("A")

	first := AttachContacts(reg, addressbook.BuildIndex([]addressbook.Entry{{FullName: strPtr("A")}}))
	assert.Empty(t, first.Sorted())
	rec, _ := reg.Get("A")
	assert.NotNil(t, rec.Contact)

	second := AttachContacts(reg, addressbook.BuildIndex(nil))
	assert.Equal(t, []string{"A"}, second.Sorted())
	assert.Nil(t, rec.Contact)
}

func TestMissingContactsSortedDedups(t *testing.T) {
	m := MissingContacts{"b", "a", "b", "c", "a"}
	assert.Equal(t, []string{"a", "b", "c"}, m.Sorted())
	assert.Equal(t, []string{}, MissingContacts(nil).Sorted())
}
