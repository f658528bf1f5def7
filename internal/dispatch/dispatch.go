// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dispatch copies the run artifacts into the OneDrive sync folder the
// mail automation picks them up from.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"irmas-audit/internal/config"
	"irmas-audit/internal/observability"
	"irmas-audit/internal/paths"

	"go.uber.org/zap"
)

// Reasons reported when nothing was copied.
const (
	SkipDisabled   = "dispatch disabled"
	SkipNoSyncRoot = "sync folder not found"
)

// Options controls one dispatch.
type Options struct {
	Enabled    bool
	SyncRoot   string // empty means paths.SyncRoot()
	FolderName string
}

// OptionsFromConfig reads the dispatch section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Enabled:    cfg.Dispatch.Enabled,
		FolderName: cfg.Dispatch.FolderName,
	}
}

// Result lists what happened to each source.
type Result struct {
	Destination string   `json:"destination,omitempty"`
	Copied      []string `json:"copied"`
	Missing     []string `json:"missing"`
	Skipped     string   `json:"skipped,omitempty"`
}

// Sources returns the artifacts a merge run hands over: the message list,
// the missing-contacts list and, when withReport is set, the HTML report.
func Sources(cfg *config.Config, withReport bool) []string {
	sources := []string{
		filepath.Join(cfg.Output.Dir, cfg.Output.MessagesFile),
		filepath.Join(cfg.Output.Dir, cfg.Output.MissingFile),
	}
	if withReport {
		sources = append(sources, cfg.ReportPath())
	}
	return sources
}

// Run copies every existing source into <sync root>/<folder>. Missing sources
// are listed in the result and do not fail the dispatch.
func Run(ctx context.Context, opts Options, sources []string, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("dispatch")
	result := &Result{Copied: []string{}, Missing: []string{}}

	if !opts.Enabled {
		result.Skipped = SkipDisabled
		logger.Info("dispatch disabled, skipping")
		return result, nil
	}

	root := opts.SyncRoot
	if root == "" {
		root = paths.SyncRoot()
	}
	if root == "" {
		result.Skipped = SkipNoSyncRoot
		logger.Warn("OneDrive folder not found, skipping dispatch")
		return result, nil
	}

	result.Destination = filepath.Join(root, opts.FolderName)
	if err := os.MkdirAll(result.Destination, 0o755); err != nil {
		return result, fmt.Errorf("failed to create dispatch folder %s: %w", result.Destination, err)
	}

	obs := observability.NewStandardObserver(logger)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				result.Missing = append(result.Missing, src)
				logger.Warn("artifact missing", zap.String("source", src))
				continue
			}
			return result, err
		}

		dst := filepath.Join(result.Destination, filepath.Base(src))
		done := obs.StartTiming("dispatch", "copy", dst)
		if err := copyFile(src, dst); err != nil {
			done(false, map[string]interface{}{"error": err.Error()})
			return result, err
		}
		done(true, nil)
		result.Copied = append(result.Copied, dst)
	}

	logger.Info("dispatch completed",
		zap.String("destination", result.Destination),
		zap.Int("copied", len(result.Copied)),
		zap.Int("missing", len(result.Missing)))
	return result, nil
}

// copyFile copies src to dst and keeps the modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
