// SPDX-License-Identifier: Apache-2.0

package license

import (
	"mime"
	"net/url"
	"strings"
)

// Target is a probed license location
type Target struct {
	URL         string
	ContentType string
}

// Rule selects targets whose body is worth storing
type Rule struct {
	Name  string
	Match func(Target) bool
}

// DownloadRules are evaluated in order; the first match wins
var DownloadRules = []Rule{
	{Name: "text content type", Match: textContentType},
	{Name: "raw text suffix", Match: rawTextSuffix},
	{Name: "raw github host", Match: rawGitHubContent},
	{Name: "nuget license page", Match: nugetLicensePage},
}

// Decide returns the name of the first matching rule. No match means the
// target should be kept as a link.
func Decide(target Target, rules []Rule) (string, bool) {
	for _, rule := range rules {
		if rule.Match(target) {
			return rule.Name, true
		}
	}
	return "", false
}

func textContentType(t Target) bool {
	mediaType, _, err := mime.ParseMediaType(t.ContentType)
	if err != nil {
		return false
	}
	if strings.Contains(mediaType, "html") {
		return false
	}

	switch mediaType {
	case "text/plain", "application/json", "text/json", "application/xml", "text/xml":
		return true
	}
	return strings.HasSuffix(mediaType, "+json") || strings.HasSuffix(mediaType, "+xml")
}

func rawTextSuffix(t Target) bool {
	u, err := url.Parse(t.URL)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	return strings.HasSuffix(p, ".txt") || strings.HasSuffix(p, ".md")
}

func rawGitHubContent(t Target) bool {
	u, err := url.Parse(t.URL)
	if err != nil {
		return false
	}
	return strings.ToLower(u.Hostname()) == rawGitHubHost
}

func nugetLicensePage(t Target) bool {
	return strings.Contains(t.URL, "licenses.nuget.org")
}
