// SPDX-License-Identifier: Apache-2.0

package nuget

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/opensbom-generator/nuget-licenses/meta"
)

const nuspecExtension = ".nuspec"

// NuspecPath returns `{cacheRoot}/{idLower}/{version}/{idLower}.nuspec`
func NuspecPath(cacheRoot string, pkg meta.Package) string {
	return filepath.Join(pkg.CacheDir(cacheRoot), pkg.LowerName()+nuspecExtension)
}

// element is the subset of an XML element the nuspec reader needs
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	text     strings.Builder
	children []*element
}

// child returns the first direct child with the given local name in namespace ns
func (e *element) child(ns, local string) *element {
	for _, c := range e.children {
		if c.name.Space == ns && c.name.Local == local {
			return c
		}
	}
	return nil
}

func (e *element) childText(ns, local string) string {
	if c := e.child(ns, local); c != nil {
		return strings.TrimSpace(c.text.String())
	}
	return ""
}

func (e *element) attr(local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func parseTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)

	var root *element
	var stack []*element
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			e := &element{name: t.Name, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("empty document")
	}
	return root, nil
}

// ParseNuspec reads the license declaration out of a nuspec document. Child
// lookups use the namespace declared on the root element, so both
// namespaced and namespace-less manifests are accepted.
func ParseNuspec(r io.Reader) (*meta.License, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, fmt.Errorf("parsing nuspec: %w", err)
	}

	ns := root.name.Space
	metadata := root.child(ns, "metadata")
	if metadata == nil {
		return nil, errMetadataNotFound
	}

	license := &meta.License{
		ID:            metadata.childText(ns, "id"),
		Version:       metadata.childText(ns, "version"),
		LicenseURL:    metadata.childText(ns, "licenseUrl"),
		Author:        metadata.childText(ns, "authors"),
		ProjectURL:    metadata.childText(ns, "projectUrl"),
		CopyrightText: metadata.childText(ns, "copyright"),
	}
	if license.Author == "" {
		license.Author = metadata.childText(ns, "owners")
	}

	if licenseElem := metadata.child(ns, "license"); licenseElem != nil {
		license.License = strings.TrimSpace(licenseElem.text.String())
		declared, _ := licenseElem.attr("type")
		kind, ok := meta.ParseKind(declared)
		if !ok || kind == meta.KindNone || kind == meta.KindURL || kind == meta.KindHash {
			log.Warnf("%s: unsupported license type %q, falling back to licenseUrl", license.ID, declared)
			kind = meta.KindNone
			license.License = ""
		}
		license.Kind = kind
	}

	return license, nil
}

// ReadNuspec parses the nuspec at path
func ReadNuspec(path string) (*meta.License, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseNuspec(f)
}
