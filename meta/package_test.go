// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256(""))
	assert.Equal(t, SHA256("https://licenses.nuget.org/MIT"), SHA256("https://licenses.nuget.org/MIT"))
	assert.NotEqual(t, SHA256("https://licenses.nuget.org/MIT"), SHA256("https://licenses.nuget.org/BSD"))
}

func TestLowerName(t *testing.T) {
	assert.Equal(t, "newtonsoft.json", Package{Name: "Newtonsoft.Json"}.LowerName())
}

func TestParseKind(t *testing.T) {
	for name, tc := range map[string]struct {
		input string
		kind  Kind
		ok    bool
	}{
		"empty":      {"", KindNone, true},
		"expression": {"expression", KindExpression, true},
		"file":       {"file", KindFile, true},
		"unknown":    {"whatever", KindNone, false},
	} {
		t.Run(name, func(t *testing.T) {
			kind, ok := ParseKind(tc.input)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestLicenseJSON(t *testing.T) {
	data, err := json.Marshal([]License{
		{ID: "Foo", Kind: KindNone},
		{ID: "Bar", Kind: KindHash, License: "abc"},
	})
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Nil(t, raw[0]["licenseDataType"])
	assert.Equal(t, "hash", raw[1]["licenseDataType"])
	assert.NotContains(t, raw[0], "detectedLicense")

	var back []License
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, KindNone, back[0].Kind)
	assert.Equal(t, KindHash, back[1].Kind)
}
