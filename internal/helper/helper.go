// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"errors"
	"os"
)

// Exists reports whether path exists on disk
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
