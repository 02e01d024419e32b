// SPDX-License-Identifier: Apache-2.0

package license

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitExpression(t *testing.T) {
	for name, tc := range map[string]struct {
		expression string
		expected   []string
	}{
		"single":        {"MIT", []string{"MIT"}},
		"or":            {"MIT OR Apache-2.0", []string{"MIT", "Apache-2.0"}},
		"nested":        {"(MIT OR Apache-2.0) AND (BSD-3-Clause)", []string{"MIT", "Apache-2.0", "BSD-3-Clause"}},
		"tight parens":  {"(MIT)AND(Zlib)", []string{"MIT", "Zlib"}},
		"with":          {"Apache-2.0 WITH LLVM-exception", []string{"Apache-2.0", "LLVM-exception"}},
		"duplicates":    {"MIT OR MIT", []string{"MIT"}},
		"extra spacing": {"  MIT   or\tISC ", []string{"MIT", "ISC"}},
		"empty":         {"", []string{}},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, SplitExpression(tc.expression))
		})
	}
}

func TestLocalName(t *testing.T) {
	for name, tc := range map[string]struct {
		name string
		ok   bool
	}{
		"id":        {"Apache-2.0", true},
		"nested":    {"docs/LICENSE.md", true},
		"empty":     {"", false},
		"parent":    {"../LICENSE", false},
		"absolute":  {"/etc/passwd", false},
		"dot parts": {"docs/../../x", false},
	} {
		t.Run(name, func(t *testing.T) {
			err := localName(tc.name)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errUnsafeName)
			}
		})
	}
}
