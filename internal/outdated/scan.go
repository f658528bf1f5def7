// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package outdated checks the grouped software inventory against the version
// policy and produces the outdated-software detail report.
package outdated

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"irmas-audit/internal/jsonfile"

	"go.uber.org/zap"
)

// DefaultReportFile is the name ingest expects the report under.
const DefaultReportFile = "outdated_softwares_detail_report.json"

// InventoryUser is one person with a given software version installed.
type InventoryUser struct {
	IP   *string `json:"IP位址"`
	Name *string `json:"使用者中文姓名"`
	Dept *string `json:"使用者部門三"`
}

// Inventory maps software name to installed version to users.
type Inventory map[string]map[string][]InventoryUser

// LoadInventory reads one inventory group file.
func LoadInventory(path string) (Inventory, error) {
	var inv Inventory
	if err := jsonfile.Read(path, jsonfile.KindInventory, &inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Row is one outdated install. Null inventory fields stay null.
type Row struct {
	IP         *string `json:"IP位址"`
	Name       *string `json:"Name"`
	Dept       *string `json:"Dept"`
	Software   string  `json:"Software"`
	Installed  string  `json:"Installed"`
	Required   string  `json:"Required"`
	SourceFile string  `json:"SourceFile"`
}

// Scanner applies a policy to inventory files.
type Scanner struct {
	policy Policy
	logger *zap.Logger
}

// NewScanner returns a scanner for policy.
func NewScanner(policy Policy, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{policy: policy, logger: logger.Named("outdated")}
}

// ScanDir scans every *.json file in dir in name order.
func (s *Scanner) ScanDir(ctx context.Context, dir string) ([]Row, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	slices.Sort(files)

	rows := []Row{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inv, err := LoadInventory(file)
		if err != nil {
			return nil, err
		}
		found := s.Scan(inv, filepath.Base(file))
		s.logger.Debug("inventory scanned", zap.String("file", file), zap.Int("outdated", len(found)))
		rows = append(rows, found...)
	}
	s.logger.Info("outdated scan complete", zap.Int("files", len(files)), zap.Int("outdated", len(rows)))
	return rows, nil
}

// Scan returns the outdated installs in one inventory. Software names,
// rules and versions are visited in sorted order. A software matched by
// several rules is reported once per rule.
func (s *Scanner) Scan(inv Inventory, sourceFile string) []Row {
	var rows []Row
	ruleNames := s.policy.RuleNames()

	for _, software := range sortedKeys(inv) {
		normalized := NormalizeName(software)
		versions := inv[software]

		for _, ruleName := range ruleNames {
			rule := s.policy[ruleName]
			if !rule.Matches(normalized, ruleName) {
				continue
			}
			required := rule.MinRequiredVersion

			for _, installed := range sortedKeys(versions) {
				users := versions[installed]
				if len(users) == 0 || !IsOutdated(installed, required) {
					continue
				}
				for _, u := range users {
					rows = append(rows, Row{
						IP:         u.IP,
						Name:       u.Name,
						Dept:       u.Dept,
						Software:   software,
						Installed:  installed,
						Required:   required,
						SourceFile: sourceFile,
					})
				}
			}
		}
	}
	return rows
}

// WriteReport writes rows as the outdated-software detail report.
func WriteReport(path string, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	return jsonfile.Write(path, rows)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
