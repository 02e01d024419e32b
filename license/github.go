// SPDX-License-Identifier: Apache-2.0

package license

import (
	"net/url"
	"strings"
)

const (
	githubHost    = "github.com"
	rawGitHubHost = "raw.githubusercontent.com"
)

// RewriteGitHubURL turns a repository page such as
// https://github.com/{user}/{repo}/blob/{ref}/{path} into the raw content
// URL https://raw.githubusercontent.com/{user}/{repo}/{ref}/{path}. Other
// URLs are returned unchanged.
//
// The ref is always the fourth path segment, so refs containing a slash
// resolve to the wrong file.
func RewriteGitHubURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || strings.ToLower(u.Host) != githubHost {
		return raw
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 5 {
		return raw
	}

	rewritten := url.URL{
		Scheme: "https",
		Host:   rawGitHubHost,
		Path:   "/" + strings.Join(append([]string{segments[0], segments[1], segments[3]}, segments[4:]...), "/"),
	}
	return rewritten.String()
}
