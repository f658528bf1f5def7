// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"irmas-audit/internal/jsonfile"
	"irmas-audit/internal/reconcile"
)

// Default artifact names.
const (
	PageFilePrefix      = "irmas_page_"
	DefaultMessagesFile = "irmas_messages.json"
	DefaultMissingFile  = "missing_contacts.json"
)

// PageFileName returns the artifact name for page n.
func PageFileName(n int) string {
	return fmt.Sprintf("%s%d.json", PageFilePrefix, n)
}

// ExportPages writes every page of the given size to dir and returns the
// paths written. Page files from an earlier run that are beyond the new last
// page are removed, so the directory always holds exactly one page set.
func (p *Pager) ExportPages(dir string, size int) ([]string, error) {
	if size <= 0 {
		return nil, &PaginationError{Page: 1, PageSize: size, Err: ErrInvalidPageSize}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := p.TotalPages(size)
	written := make([]string, 0, total)
	for n := 1; n <= total; n++ {
		page, err := p.Page(n, size)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, PageFileName(n))
		if err := jsonfile.Write(path, page); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if err := removeStalePages(dir, total); err != nil {
		return written, err
	}
	return written, nil
}

func removeStalePages(dir string, total int) error {
	matches, err := filepath.Glob(filepath.Join(dir, PageFilePrefix+"*.json"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		base := filepath.Base(path)
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(base, PageFilePrefix), ".json"))
		if err != nil || n <= total {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale page %s: %w", base, err)
		}
	}
	return nil
}

// ExportMessages writes the flat message list to dir/filename.
func (p *Pager) ExportMessages(dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultMessagesFile
	}
	path := filepath.Join(dir, filename)
	if err := jsonfile.Write(path, p.Messages()); err != nil {
		return "", err
	}
	return path, nil
}

// ExportMissing writes the sorted, deduplicated missing names to
// dir/filename.
func ExportMissing(missing reconcile.MissingContacts, dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultMissingFile
	}
	path := filepath.Join(dir, filename)
	if err := jsonfile.Write(path, missing.Sorted()); err != nil {
		return "", err
	}
	return path, nil
}
