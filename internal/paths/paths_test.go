// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IRMAS_CONFIG_DIR", dir)
	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG lookup is not used on Windows")
	}
	t.Setenv("IRMAS_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "irmas-audit"), GetConfigDir())
}

func TestSyncRootPrefersCommercial(t *testing.T) {
	t.Setenv("OneDriveCommercial", "")
	t.Setenv("OneDrive", "")
	assert.Equal(t, "", SyncRoot())

	t.Setenv("OneDrive", "/personal")
	assert.Equal(t, "/personal", SyncRoot())

	t.Setenv("OneDriveCommercial", "/business")
	assert.Equal(t, "/business", SyncRoot())
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "", NormalizePath(""))
	assert.Equal(t, filepath.Clean("a/b"), NormalizePath("a//b/./"))
	assert.NotContains(t, NormalizePath("~/irmas"), "~")
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("output/irmas"))

	err := ValidatePath("bad\x00path")
	var pathErr *PathValidationError
	assert.True(t, errors.As(err, &pathErr))
	assert.Contains(t, err.Error(), "bad")
}
