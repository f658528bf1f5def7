// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package identity canonicalizes display names so that people scraped from
// the portal can be matched against the LDAP address book.
package identity

import "strings"

// ideographicSpace is the full-width space (U+3000) the portal pads names with.
const ideographicSpace = "\u3000"

// Normalize removes every full-width space and trims surrounding whitespace.
// Case and internal half-width spacing are preserved, so "王 小明" and
// "王小明" remain distinct keys.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(name, ideographicSpace, ""))
}

// NormalizePtr normalizes an optional name. A nil pointer yields "".
func NormalizePtr(name *string) string {
	if name == nil {
		return ""
	}
	return Normalize(*name)
}
