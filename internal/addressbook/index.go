// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package addressbook

import (
	"sort"

	"irmas-audit/internal/identity"
)

// Index maps normalized full names to contacts. It only supports point
// lookups.
type Index struct {
	byName     map[string]*Entry
	collisions map[string]int
}

// BuildIndex keys every entry by its normalized full name. Entries without
// a full name are skipped. When two entries normalize to the same name the
// later one wins; the overwritten names are kept for reporting.
func BuildIndex(entries []Entry) *Index {
	idx := &Index{
		byName:     make(map[string]*Entry, len(entries)),
		collisions: make(map[string]int),
	}
	for i := range entries {
		key := identity.NormalizePtr(entries[i].FullName)
		if key == "" {
			continue
		}
		if _, exists := idx.byName[key]; exists {
			idx.collisions[key]++
		}
		entry := entries[i]
		idx.byName[key] = &entry
	}
	return idx
}

// Lookup returns the contact stored under an already normalized name.
func (idx *Index) Lookup(normalizedName string) (*Entry, bool) {
	if idx == nil {
		return nil, false
	}
	entry, ok := idx.byName[normalizedName]
	return entry, ok
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byName)
}

// Collisions returns the sorted names that more than one entry mapped to.
func (idx *Index) Collisions() []string {
	if idx == nil {
		return nil
	}
	names := make([]string, 0, len(idx.collisions))
	for name := range idx.collisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
