// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package jsonfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFile(t *testing.T) {
	var v any
	err := Read(filepath.Join(t.TempDir(), "absent.json"), KindBanned, &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var missing *MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, KindBanned, missing.Kind)
}

func TestReadWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banned.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"value": "x"}`), 0600))

	var v []map[string]any
	err := Read(path, KindBanned, &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))

	var malformed *MalformedDocumentError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, path, malformed.Path)
}

func TestDecodeInvalidJSON(t *testing.T) {
	var v any
	err := Decode([]byte(`[{`), KindOutdated, &v)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
}

func TestDecodeSoftwarePolicy(t *testing.T) {
	var v map[string]map[string]any
	ok := `{"Chrome": {"match_type": "keyword", "match_patterns": ["chrome"], "min_required_version": "120.0"}}`
	require.NoError(t, Decode([]byte(ok), KindSoftwarePolicy, &v))

	bad := `{"Chrome": {"match_type": "regex", "min_required_version": "1"}}`
	assert.True(t, errors.Is(Decode([]byte(bad), KindSoftwarePolicy, &v), ErrMalformedDocument))
}

func TestWriteIsLiteralAndIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")
	payload := []map[string]string{{"name": "王小明", "message": "<p>未偵測到任何問題。</p>"}}

	require.NoError(t, Write(path, payload))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(first), "王小明")
	assert.Contains(t, string(first), "<p>")
	assert.Contains(t, string(first), "\n  {\n")

	require.NoError(t, Write(path, payload))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
