// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"errors"
	"sort"

	"github.com/go-enry/go-license-detector/v4/licensedb"
	"github.com/go-enry/go-license-detector/v4/licensedb/filer"
)

var errNoLicenseDetected = errors.New("no license detected")

// License is the best license match found in a directory
type License struct {
	ID         string
	Confidence float32
}

// GetLicenses runs license detection over the files in path and returns the
// most confident match
func GetLicenses(path string) (*License, error) {
	f, err := filer.FromDirectory(path)
	if err != nil {
		return nil, err
	}

	matches, err := licensedb.Detect(f)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errNoLicenseDetected
	}

	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := &License{}
	for _, id := range ids {
		if m := matches[id]; best.ID == "" || m.Confidence > best.Confidence {
			best = &License{ID: id, Confidence: m.Confidence}
		}
	}

	return best, nil
}
