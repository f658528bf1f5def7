// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package outdated

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"irmas-audit/internal/jsonfile"

	"github.com/Masterminds/semver/v3"
)

// MatchType selects how a rule recognizes software names.
type MatchType string

const (
	MatchKeyword          MatchType = "keyword"
	MatchExact            MatchType = "exact"
	MatchVersionThreshold MatchType = "version_threshold"
)

// Rule is one entry of the software policy.
type Rule struct {
	MatchType          MatchType `json:"match_type"`
	MatchPatterns      []string  `json:"match_patterns"`
	MinRequiredVersion string    `json:"min_required_version"`
}

// Policy maps rule names to rules.
type Policy map[string]Rule

// LoadPolicy reads the software policy file.
func LoadPolicy(path string) (Policy, error) {
	var policy Policy
	if err := jsonfile.Read(path, jsonfile.KindSoftwarePolicy, &policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// RuleNames returns the rule names in sorted order.
func (p Policy) RuleNames() []string {
	return sortedKeys(p)
}

// Matches reports whether softwareName falls under the rule called ruleName.
// keyword rules match case-insensitive substrings, exact rules match one of
// the patterns verbatim and version_threshold rules match their own name.
func (r Rule) Matches(softwareName, ruleName string) bool {
	switch r.MatchType {
	case MatchKeyword:
		lower := strings.ToLower(softwareName)
		for _, pattern := range r.MatchPatterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return true
			}
		}
		return false
	case MatchExact:
		return slices.Contains(r.MatchPatterns, softwareName)
	case MatchVersionThreshold:
		return softwareName == ruleName
	default:
		return false
	}
}

// NormalizeName folds the many 7-Zip product strings into "7-Zip".
func NormalizeName(name string) string {
	if strings.HasPrefix(strings.ToLower(name), "7-zip") {
		return "7-Zip"
	}
	return name
}

// IsOutdated reports whether installed is strictly older than required.
// Versions that cannot be parsed are never outdated.
func IsOutdated(installed, required string) bool {
	cmp, err := compareVersions(installed, required)
	if err != nil {
		return false
	}
	return cmp < 0
}

func compareVersions(a, b string) (int, error) {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb), nil
	}

	// Windows installers report four or more components, which semver rejects.
	na, err := parseDotted(a)
	if err != nil {
		return 0, err
	}
	nb, err := parseDotted(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < max(len(na), len(nb)); i++ {
		var x, y uint64
		if i < len(na) {
			x = na[i]
		}
		if i < len(nb) {
			y = nb[i]
		}
		if x != y {
			if x < y {
				return -1, nil
			}
			return 1, nil
		}
	}
	return 0, nil
}

func parseDotted(v string) ([]uint64, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil, fmt.Errorf("empty version")
	}
	parts := strings.Split(v, ".")
	out := make([]uint64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", v, err)
		}
		out[i] = n
	}
	return out, nil
}
