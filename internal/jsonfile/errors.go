// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package jsonfile

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is matched by every MissingInputError.
	ErrMissingInput = errors.New("required input document not found")

	// ErrMalformedDocument is matched by every MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed input document")
)

// MissingInputError reports a required source document absent at load time.
// The merge pipeline cannot produce partial output without it.
type MissingInputError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s document not found at %s", e.Kind, e.Path)
}

func (e *MissingInputError) Unwrap() []error {
	return []error{ErrMissingInput, e.Err}
}

// MalformedDocumentError reports a document whose overall shape does not
// match what the upstream producer emits (wrong JSON type, invalid JSON).
// Individual records with missing fields are not reported this way.
type MalformedDocumentError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed %s document: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("malformed %s document %s: %v", e.Kind, e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}
