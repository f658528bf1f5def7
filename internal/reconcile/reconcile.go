// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package reconcile joins person records with the address book.
package reconcile

import (
	"sort"

	"irmas-audit/internal/addressbook"
	"irmas-audit/internal/identity"
	"irmas-audit/internal/registry"
)

// MissingContacts is the list of raw names without an address-book entry.
type MissingContacts []string

// Sorted returns the names ordered byte-wise with duplicates removed.
func (m MissingContacts) Sorted() []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for _, name := range m {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AttachContacts sets the contact of every record in reg from idx and
// returns the names that had no match. Previous results are overwritten, so
// calling it again after reg or idx changed gives a consistent view.
// A nil idx leaves every record without a contact.
func AttachContacts(reg *registry.Registry, idx *addressbook.Index) MissingContacts {
	missing := MissingContacts{}
	for _, rec := range reg.Records() {
		entry, ok := idx.Lookup(identity.Normalize(rec.Name()))
		if !ok {
			rec.Contact = nil
			missing = append(missing, rec.Name())
			continue
		}
		rec.Contact = entry
	}
	return missing
}
