// SPDX-License-Identifier: Apache-2.0

package license

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteGitHubURL(t *testing.T) {
	for name, tc := range map[string]struct {
		url      string
		expected string
	}{
		"blob": {
			url:      "https://github.com/user/repo/blob/main/LICENSE",
			expected: "https://raw.githubusercontent.com/user/repo/main/LICENSE",
		},
		"nested path": {
			url:      "https://github.com/dotnet/runtime/blob/v8.0.0/docs/legal/LICENSE.TXT",
			expected: "https://raw.githubusercontent.com/dotnet/runtime/v8.0.0/docs/legal/LICENSE.TXT",
		},
		"raw kind": {
			url:      "https://github.com/user/repo/raw/1a2b3c/LICENSE.md",
			expected: "https://raw.githubusercontent.com/user/repo/1a2b3c/LICENSE.md",
		},
		"repository root": {
			url:      "https://github.com/user/repo",
			expected: "https://github.com/user/repo",
		},
		"no file": {
			url:      "https://github.com/user/repo/tree/main",
			expected: "https://github.com/user/repo/tree/main",
		},
		"other host": {
			url:      "https://gitlab.com/user/repo/blob/main/LICENSE",
			expected: "https://gitlab.com/user/repo/blob/main/LICENSE",
		},
		"already raw": {
			url:      "https://raw.githubusercontent.com/user/repo/main/LICENSE",
			expected: "https://raw.githubusercontent.com/user/repo/main/LICENSE",
		},
		"plain http": {
			url:      "http://github.com/user/repo/blob/main/LICENSE",
			expected: "http://github.com/user/repo/blob/main/LICENSE",
		},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, RewriteGitHubURL(tc.url))
		})
	}
}
