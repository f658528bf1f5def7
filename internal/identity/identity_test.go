// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"full-width space inside", "王　小明 ", "王小明"},
		{"leading and trailing", "  陳大文\t", "陳大文"},
		{"only full-width spaces", "　　", ""},
		{"internal half-width space kept", "王 小明", "王 小明"},
		{"case kept", "Alice Chen", "Alice Chen"},
		{"trailing full-width after space", "陳大文 　", "陳大文"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalizePtr(t *testing.T) {
	assert.Equal(t, "", NormalizePtr(nil))
	name := "　林小華"
	assert.Equal(t, "林小華", NormalizePtr(&name))
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	alphabet := []string{"王", "小", "明", "a", "B", " ", "　", "\t"}
	nameGen := gen.SliceOf(gen.IntRange(0, len(alphabet)-1)).
		Map(func(idx []int) string {
			var b strings.Builder
			for _, i := range idx {
				b.WriteString(alphabet[i])
			}
			return b.String()
		})

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s string) bool {
			once := Normalize(s)
			return Normalize(once) == once
		},
		nameGen,
	))

	properties.Property("normalize removes every full-width space", prop.ForAll(
		func(s string) bool {
			return !strings.Contains(Normalize(s), "　")
		},
		nameGen,
	))

	properties.Property("normalize has no outer whitespace", prop.ForAll(
		func(s string) bool {
			n := Normalize(s)
			return n == strings.TrimSpace(n)
		},
		nameGen,
	))

	properties.TestingRun(t)
}
