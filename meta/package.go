// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"crypto/sha1" // nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"path/filepath"
	"strings"
)

// Package is a resolved dependency as reported by the package manager
type Package struct {
	Name            string
	ResolvedVersion string
}

// LowerName is the package id as it appears in the global packages folder
func (p Package) LowerName() string {
	return strings.ToLower(p.Name)
}

// CacheDir is the directory the package was extracted to under the global packages folder
func (p Package) CacheDir(root string) string {
	return filepath.Join(root, p.LowerName(), p.ResolvedVersion)
}

type Checksum struct {
	Algorithm HashAlgorithm
	Content   []byte
	Value     string
}

func (c *Checksum) String() string {
	if c.Value == "" {
		c.Value = c.Compute(c.Content)
	}
	return c.Value
}

func (c *Checksum) Compute(content []byte) string {
	var h hash.Hash
	switch c.Algorithm {
	case HashAlgoSHA256:
		h = sha256.New()
	case HashAlgoSHA512:
		h = sha512.New()
	default:
		h = sha1.New() // nolint:gosec
	}
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// HashAlgorithm ...
type HashAlgorithm string

const (
	HashAlgoSHA1   HashAlgorithm = "SHA1"
	HashAlgoSHA256 HashAlgorithm = "SHA256"
	HashAlgoSHA512 HashAlgorithm = "SHA512"
)

// SHA256 returns the hex encoded sha256 digest of s
func SHA256(s string) string {
	c := Checksum{Algorithm: HashAlgoSHA256, Content: []byte(s)}
	return c.String()
}
