// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"encoding/json"
	"fmt"
)

// Kind tells a consumer how to interpret License.License
type Kind int

const (
	// KindNone means no <license> element was declared
	KindNone Kind = iota
	// KindExpression holds an SPDX expression; each id is stored under its own name
	KindExpression
	// KindFile holds `{packageId}/{fileName}` relative to the output directory
	KindFile
	// KindURL holds an external link that was not downloaded
	KindURL
	// KindHash holds the content-addressed name of a downloaded license text
	KindHash
)

var kindNames = map[Kind]string{
	KindExpression: "expression",
	KindFile:       "file",
	KindURL:        "url",
	KindHash:       "hash",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

// ParseKind maps the nuspec `type` attribute of <license> to a Kind.
// The second return value is false for unknown values.
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return KindNone, true
	}
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindNone, false
}

// MarshalJSON writes KindNone as null
func (k Kind) MarshalJSON() ([]byte, error) {
	if k == KindNone {
		return []byte("null"), nil
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON ...
func (k *Kind) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*k = KindNone
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, ok := ParseKind(s)
	if !ok {
		return fmt.Errorf("unknown license data type %q", s)
	}
	*k = parsed
	return nil
}

// License is the license declaration of one package. The resolver rewrites
// License and Kind in place once the text has been materialized.
type License struct {
	ID              string `json:"id"`
	Version         string `json:"version"`
	ResolvedVersion string `json:"resolvedVersion"`
	License         string `json:"license"`
	Kind            Kind   `json:"licenseDataType"`
	LicenseURL      string `json:"licenseUrl"`
	Author          string `json:"author"`
	ProjectURL      string `json:"projectUrl"`
	CopyrightText   string `json:"copyrightText"`
	DetectedLicense string `json:"detectedLicense,omitempty"`
}

// Package returns the package the declaration was read for
func (l *License) Package() Package {
	return Package{Name: l.ID, ResolvedVersion: l.ResolvedVersion}
}

// Placeholder returns the record emitted for a package whose manifest could not be read
func Placeholder(p Package) *License {
	return &License{
		ID:              p.Name,
		ResolvedVersion: p.ResolvedVersion,
	}
}
