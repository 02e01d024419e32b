// SPDX-License-Identifier: Apache-2.0

package nuget

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/opensbom-generator/nuget-licenses/meta"
)

// number of lines `dotnet list package` prints before the first framework section
const listingHeaderLines = 3

const packageRowMarker = ">"

const globalPackagesPrefix = "global-packages: "

// frameworkPattern matches monikers such as `[net8.0-android34.0]` for the
// given platform and captures the net and platform versions
func frameworkPattern(platform string) *regexp.Regexp {
	return regexp.MustCompile(`\[net(\d+\.\d+)-` + regexp.QuoteMeta(platform) + `(\d+\.\d+)\]`)
}

type framework struct {
	moniker         string
	netVersion      string
	platformVersion string
}

// parseFrameworks returns the distinct target frameworks for platform, highest first
func parseFrameworks(output, platform string) []string {
	re := frameworkPattern(platform)

	seen := map[string]bool{}
	var found []framework
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		for _, m := range re.FindAllStringSubmatch(scanner.Text(), -1) {
			moniker := strings.TrimSuffix(strings.TrimPrefix(m[0], "["), "]")
			if seen[moniker] {
				continue
			}
			seen[moniker] = true
			found = append(found, framework{moniker: moniker, netVersion: "v" + m[1], platformVersion: "v" + m[2]})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if c := semver.Compare(found[i].netVersion, found[j].netVersion); c != 0 {
			return c > 0
		}
		return semver.Compare(found[i].platformVersion, found[j].platformVersion) > 0
	})

	monikers := make([]string, 0, len(found))
	for _, f := range found {
		monikers = append(monikers, f.moniker)
	}
	return monikers
}

func splitLines(output string) [][]string {
	var lines [][]string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		lines = append(lines, strings.Fields(scanner.Text()))
	}
	return lines
}

// parsePackages reads the `--include-transitive` listing. Only rows marked
// with `>` are packages; the first field after the marker is the id and the
// last one the resolved version.
func parsePackages(lines [][]string) ([]meta.Package, error) {
	if len(lines) <= listingHeaderLines {
		return nil, ErrListingTooShort
	}

	packages := []meta.Package{}
	for _, fields := range lines[listingHeaderLines:] {
		if len(fields) < 3 || fields[0] != packageRowMarker {
			continue
		}
		packages = append(packages, meta.Package{
			Name:            fields[1],
			ResolvedVersion: fields[len(fields)-1],
		})
	}

	return packages, nil
}

func parseGlobalPackages(output string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, globalPackagesPrefix) {
			return strings.TrimPrefix(line, globalPackagesPrefix), nil
		}
	}
	return "", fmt.Errorf("unexpected output %q: %w", strings.TrimSpace(output), errNoDependencyCache)
}
