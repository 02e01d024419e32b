// SPDX-License-Identifier: Apache-2.0

package license

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// spdxTextURL serves the canonical text of an SPDX license id
const spdxTextURL = "https://raw.githubusercontent.com/spdx/license-list-data/master/text/%s.txt"

var expressionOperators = map[string]bool{
	"AND":  true,
	"OR":   true,
	"WITH": true,
}

// SplitExpression returns the distinct license ids of an SPDX expression in
// order of appearance. Operators and parentheses are dropped; exception ids
// following WITH are kept as ids of their own.
func SplitExpression(expression string) []string {
	fields := strings.FieldsFunc(expression, func(r rune) bool {
		return r == '(' || r == ')' || unicode.IsSpace(r)
	})

	seen := map[string]bool{}
	ids := []string{}
	for _, f := range fields {
		if expressionOperators[strings.ToUpper(f)] || seen[f] {
			continue
		}
		seen[f] = true
		ids = append(ids, f)
	}
	return ids
}

// SPDXTextURL ...
func SPDXTextURL(id string) string {
	return fmt.Sprintf(spdxTextURL, id)
}

// localName checks that name stays below the directory it is joined to
func localName(name string) error {
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%q: %w", name, errUnsafeName)
	}
	return nil
}
