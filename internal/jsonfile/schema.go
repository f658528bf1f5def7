// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package jsonfile

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind names an externally produced document type.
type Kind string

const (
	KindAntivirus      Kind = "antivirus"
	KindBanned         Kind = "banned-software"
	KindOutdated       Kind = "outdated-software"
	KindAddressBook    Kind = "address-book"
	KindSoftwarePolicy Kind = "software-policy"
	KindInventory      Kind = "software-inventory"
)

// Schemas only pin the top-level shape. Record-level gaps are tolerated and
// skipped by the ingestors.
var schemaSources = map[Kind]string{
	KindAntivirus: `{
		"type": "object",
		"additionalProperties": true
	}`,
	KindBanned: `{
		"type": "array",
		"items": {"type": "object"}
	}`,
	KindOutdated: `{
		"type": "array",
		"items": {"type": "object"}
	}`,
	KindAddressBook: `{
		"type": "array",
		"items": {"type": "object"}
	}`,
	KindSoftwarePolicy: `{
		"type": "object",
		"additionalProperties": {
			"type": "object",
			"required": ["match_type", "min_required_version"],
			"properties": {
				"match_type": {"enum": ["keyword", "exact", "version_threshold"]},
				"match_patterns": {"type": "array", "items": {"type": "string"}},
				"min_required_version": {"type": "string"}
			}
		}
	}`,
	KindInventory: `{
		"type": "object",
		"additionalProperties": {
			"type": "object",
			"additionalProperties": {"type": ["array", "null"]}
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[Kind]*jsonschema.Schema
	compileErr  error
)

func compileSchemas() {
	compiled = make(map[Kind]*jsonschema.Schema, len(schemaSources))
	for kind, src := range schemaSources {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := fmt.Sprintf("https://irmas-audit.schemas.local/%s.schema.json", kind)
		if err := c.AddResource(url, strings.NewReader(src)); err != nil {
			compileErr = fmt.Errorf("schema load failed for %s: %w", kind, err)
			return
		}
		schema, err := c.Compile(url)
		if err != nil {
			compileErr = fmt.Errorf("schema compile failed for %s: %w", kind, err)
			return
		}
		compiled[kind] = schema
	}
}

func schemaFor(kind Kind) (*jsonschema.Schema, error) {
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return nil, compileErr
	}
	schema, ok := compiled[kind]
	if !ok {
		return nil, fmt.Errorf("no schema registered for document kind %q", kind)
	}
	return schema, nil
}
