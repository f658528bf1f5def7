// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package addressbook indexes the LDAP contact export by normalized full name.
package addressbook

import (
	"strings"

	"irmas-audit/internal/jsonfile"
)

// Entry is one row of the contact export. Absent values are nil and encode
// as JSON null.
type Entry struct {
	FullName      *string `json:"full_name"`
	LastName      *string `json:"last_name"`
	FirstName     *string `json:"first_name"`
	Office        *string `json:"office"`
	Company       *string `json:"company"`
	Department    *string `json:"department"`
	Title         *string `json:"title"`
	Fax           *string `json:"fax"`
	BusinessFax   *string `json:"business_fax"`
	BusinessPhone *string `json:"business_phone"`
	Mobile        *string `json:"mobile"`
	CompanyID     *string `json:"company_id"`
	Extension     *string `json:"extension"`
	Email         *string `json:"email"`
	DisplayName   *string `json:"display_name"`
	Category      *string `json:"category"`
}

// nbspPlaceholder is how the LDAP page renders empty cells.
const nbspPlaceholder = "&nbsp;"

// Clean maps blank values (U+00A0 counts as blank) and the "&nbsp;"
// placeholder to absent and trims the rest.
func Clean(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" || trimmed == nbspPlaceholder {
		return nil
	}
	if trimmed == *value {
		return value
	}
	return &trimmed
}

// fields lists pointers to every attribute, in export column order.
func (e *Entry) fields() []**string {
	return []**string{
		&e.FullName, &e.LastName, &e.FirstName, &e.Office, &e.Company,
		&e.Department, &e.Title, &e.Fax, &e.BusinessFax, &e.BusinessPhone,
		&e.Mobile, &e.CompanyID, &e.Extension, &e.Email, &e.DisplayName,
		&e.Category,
	}
}

// Normalize cleans every attribute in place.
func (e *Entry) Normalize() {
	for _, f := range e.fields() {
		*f = Clean(*f)
	}
}

// Load reads an address book document and cleans every entry.
func Load(path string) ([]Entry, error) {
	var entries []Entry
	if err := jsonfile.Read(path, jsonfile.KindAddressBook, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Normalize()
	}
	return entries, nil
}

// WriteJSON writes entries as the address book document consumed by Load.
func WriteJSON(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	return jsonfile.Write(path, entries)
}

func strPtr(s string) *string { return &s }
