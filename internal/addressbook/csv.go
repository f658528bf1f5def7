// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package addressbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported export encodings.
const (
	EncodingBig5 = "big5"
	EncodingUTF8 = "utf-8"
)

// exportColumns maps the LDAP export headers to entry attributes.
var exportColumns = []struct {
	header string
	field  func(*Entry) **string
}{
	{"姓名", func(e *Entry) **string { return &e.FullName }},
	{"姓氏", func(e *Entry) **string { return &e.LastName }},
	{"名字", func(e *Entry) **string { return &e.FirstName }},
	{"處", func(e *Entry) **string { return &e.Office }},
	{"公司", func(e *Entry) **string { return &e.Company }},
	{"部門", func(e *Entry) **string { return &e.Department }},
	{"職稱", func(e *Entry) **string { return &e.Title }},
	{"傳真號碼", func(e *Entry) **string { return &e.Fax }},
	{"商務傳真", func(e *Entry) **string { return &e.BusinessFax }},
	{"商務電話", func(e *Entry) **string { return &e.BusinessPhone }},
	{"行動電話", func(e *Entry) **string { return &e.Mobile }},
	{"公司 ID", func(e *Entry) **string { return &e.CompanyID }},
	{"帳戶", func(e *Entry) **string { return &e.Extension }},
	{"電子郵件地址", func(e *Entry) **string { return &e.Email }},
	{"電子郵件顯示名稱", func(e *Entry) **string { return &e.DisplayName }},
	{"類別", func(e *Entry) **string { return &e.Category }},
}

// ErrMissingHeader is returned when the export lacks the 姓名 column.
var ErrMissingHeader = errors.New("address book export has no 姓名 column")

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingBig5, "cp950":
		return traditionalchinese.Big5.NewDecoder(), nil
	case EncodingUTF8, "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported address book encoding %q", name)
	}
}

// ImportCSV converts the LDAP "download" CSV into entries. The portal serves
// Big5; bytes that do not decode become U+FFFD rather than failing the import.
func ImportCSV(r io.Reader, encodingName string) ([]Entry, error) {
	decoder, err := decoderFor(encodingName)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("error reading address book header: %w", err)
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := positions["姓名"]; !ok {
		return nil, ErrMissingHeader
	}

	entries := []Entry{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading address book row: %w", err)
		}

		var entry Entry
		for _, col := range exportColumns {
			pos, ok := positions[col.header]
			if !ok || pos >= len(row) {
				continue
			}
			*col.field(&entry) = strPtr(row[pos])
		}
		entry.Normalize()
		entries = append(entries, entry)
	}
	return entries, nil
}
