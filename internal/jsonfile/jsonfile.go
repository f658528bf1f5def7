// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package jsonfile reads the scraped source documents and writes the
// dispatch artifacts. Output is UTF-8, two-space indented, with non-ASCII
// and HTML characters written literally.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Read loads the document at path, checks its shape and decodes it into v.
func Read(path string, kind Kind, v any) error {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingInputError{Kind: kind, Path: cleanPath, Err: err}
		}
		return fmt.Errorf("error reading %s document: %w", kind, err)
	}
	if err := Decode(data, kind, v); err != nil {
		var malformed *MalformedDocumentError
		if errors.As(err, &malformed) {
			malformed.Path = cleanPath
		}
		return err
	}
	return nil
}

// Decode validates data against the schema for kind and unmarshals it into v.
func Decode(data []byte, kind Kind, v any) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return &MalformedDocumentError{Kind: kind, Err: err}
	}
	if err := schema.Validate(generic); err != nil {
		return &MalformedDocumentError{Kind: kind, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &MalformedDocumentError{Kind: kind, Err: err}
	}
	return nil
}

// Marshal renders v the way every artifact is written.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with the rendering of v. The content goes
// to a temporary sibling first and is renamed into place, so readers see
// either the previous artifact or the new one.
func Write(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
