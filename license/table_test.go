// SPDX-License-Identifier: Apache-2.0

package license

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensbom-generator/nuget-licenses/meta"
)

func TestURLTableLookup(t *testing.T) {
	table := NewURLTable(nil)

	first, err := table.Lookup("https://example.com/LICENSE")
	require.NoError(t, err)
	require.Equal(t, meta.SHA256("https://example.com/LICENSE"), first)

	again, err := table.Lookup("https://example.com/LICENSE")
	require.NoError(t, err)
	require.Equal(t, first, again)

	other, err := table.Lookup("https://example.com/COPYING")
	require.NoError(t, err)
	require.NotEqual(t, first, other)
	require.Equal(t, 2, table.Len())
}

func TestURLTableCollision(t *testing.T) {
	const a, b = "https://a.example/LICENSE", "https://b.example/LICENSE"
	collide := func(s string) string {
		if s == a || s == b {
			return "collision"
		}
		return meta.SHA256(s)
	}
	table := NewURLTable(collide)

	first, err := table.Lookup(a)
	require.NoError(t, err)
	require.Equal(t, "collision", first)

	second, err := table.Lookup(b)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.Equal(t, meta.SHA256(b+"collision"), second)

	// both keys keep their names
	again, err := table.Lookup(b)
	require.NoError(t, err)
	require.Equal(t, second, again)
	again, err = table.Lookup(a)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

func TestURLTableExhausted(t *testing.T) {
	table := NewURLTable(func(string) string { return "constant" })

	_, err := table.Lookup("https://a.example")
	require.NoError(t, err)
	_, err = table.Lookup("https://b.example")
	require.ErrorIs(t, err, errHashExhausted)
}

func TestURLTableConcurrent(t *testing.T) {
	table := NewURLTable(nil)

	var wg sync.WaitGroup
	names := make([]string, 32)
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name, err := table.Lookup(fmt.Sprintf("https://example.com/%d", i%4))
			assert.NoError(t, err)
			names[i] = name
		}(i)
	}
	wg.Wait()

	require.Equal(t, 4, table.Len())
	for i := range names {
		require.Equal(t, names[i%4], names[i])
	}
}
