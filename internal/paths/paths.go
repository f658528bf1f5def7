// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appDirName = "irmas-audit"

// GetConfigDir returns the irmas-audit configuration directory.
// IRMAS_CONFIG_DIR wins on every platform; otherwise APPDATA is used on
// Windows and XDG_CONFIG_HOME or ~/.irmas-audit elsewhere.
func GetConfigDir() string {
	if dir := os.Getenv("IRMAS_CONFIG_DIR"); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, "."+appDirName)
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appDirName)
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+appDirName)
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// SyncRoot returns the local root of the OneDrive sync client, preferring the
// business account. It returns "" when neither variable is set.
func SyncRoot() string {
	for _, name := range []string{"OneDriveCommercial", "OneDrive"} {
		if dir := os.Getenv(name); dir != "" {
			return dir
		}
	}
	return ""
}

// NormalizePath cleans path for the current platform and expands a leading ~.
// UNC prefixes survive cleaning on Windows.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	normalized := filepath.Clean(path)
	if runtime.GOOS == "windows" && strings.HasPrefix(path, `\\`) && !strings.HasPrefix(normalized, `\\`) {
		normalized = `\\` + strings.TrimPrefix(normalized, `\`)
	}
	return normalized
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if runtime.GOOS == "windows" {
		return validateWindowsPath(path)
	}
	return validateUnixPath(path)
}

func validateWindowsPath(path string) error {
	if err := validateUnixPath(path); err != nil {
		return err
	}
	for i, char := range path {
		if strings.ContainsRune(`<>:"|?*`, char) {
			// drive letter, e.g. C:
			if char == ':' && i == 1 {
				continue
			}
			return &PathValidationError{Path: path, Reason: "contains invalid character: " + string(char)}
		}
	}
	if len(path) > 32767 {
		return &PathValidationError{Path: path, Reason: "path exceeds maximum length of 32,767 characters"}
	}
	return nil
}

func validateUnixPath(path string) error {
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
