// SPDX-License-Identifier: Apache-2.0

package modules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/opensbom-generator/nuget-licenses/internal/helper"
	"github.com/opensbom-generator/nuget-licenses/meta"
)

// ManifestFile is written to the target directory
const ManifestFile = "license_list.json"

// WriteManifest writes licenses as an indented JSON array in the given order
func WriteManifest(path string, licenses []*meta.License) error {
	if licenses == nil {
		licenses = []*meta.License{}
	}

	data, err := json.MarshalIndent(licenses, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ManifestFile, err)
	}
	data = append(data, '\n')

	if err := helper.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest
func ReadManifest(path string) ([]*meta.License, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var licenses []*meta.License
	if err := json.Unmarshal(data, &licenses); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return licenses, nil
}
