// SPDX-License-Identifier: Apache-2.0

package license

import (
	"fmt"
	"sync"

	"github.com/opensbom-generator/nuget-licenses/meta"
)

// HashFunc names the stored text of a license url
type HashFunc func(string) string

// URLTable maps license urls to the file name their text is stored under.
// Equal urls always get the same name and distinct urls distinct names.
type URLTable struct {
	mu     sync.Mutex
	hash   HashFunc
	byKey  map[string]string
	owners map[string]string
}

// NewURLTable returns an empty table. A nil hash defaults to meta.SHA256.
func NewURLTable(hash HashFunc) *URLTable {
	if hash == nil {
		hash = meta.SHA256
	}
	return &URLTable{
		hash:   hash,
		byKey:  map[string]string{},
		owners: map[string]string{},
	}
}

// Lookup returns the name for url, assigning one on first use. When the
// hash of url is already owned by another key, the key is extended with
// that hash and hashed again.
func (t *URLTable) Lookup(url string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := url
	for attempt := 0; attempt <= len(t.owners); attempt++ {
		if name, ok := t.byKey[key]; ok {
			return name, nil
		}

		name := t.hash(key)
		if _, taken := t.owners[name]; !taken {
			t.byKey[key] = name
			t.owners[name] = key
			return name, nil
		}
		key += name
	}

	return "", fmt.Errorf("%s: %w", url, errHashExhausted)
}

// Len ...
func (t *URLTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byKey)
}
