// SPDX-License-Identifier: Apache-2.0

package nuget

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opensbom-generator/nuget-licenses/meta"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestParsePackages(t *testing.T) {
	packages, err := parsePackages(splitLines(readTestdata(t, "list-transitive.txt")))
	require.NoError(t, err)
	require.Equal(t, []meta.Package{
		{Name: "Microsoft.Maui.Controls", ResolvedVersion: "8.0.40"},
		{Name: "Newtonsoft.Json", ResolvedVersion: "13.0.3"},
		{Name: "TRViS.IO", ResolvedVersion: "1.0.0"},
		{Name: "Microsoft.Extensions.Logging.Abstractions", ResolvedVersion: "8.0.0"},
		{Name: "Xamarin.AndroidX.Core", ResolvedVersion: "1.12.0.4"},
	}, packages)
}

func TestParsePackagesTooShort(t *testing.T) {
	for name, output := range map[string]string{
		"empty":       "",
		"header only": "Project 'A' has the following package references\n   [net8.0-android34.0]: \n   No packages were found for this framework.\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parsePackages(splitLines(output))
			require.ErrorIs(t, err, ErrListingTooShort)
		})
	}
}

func TestParsePackagesSkipsHeader(t *testing.T) {
	output := "> Header.Lookalike 1.0.0\n\n   Top-level Package  Requested  Resolved\n   > Real.Package  2.0.0  2.0.1\n   Nope 1.0.0 1.0.0\n"
	packages, err := parsePackages(splitLines(output))
	require.NoError(t, err)
	require.Equal(t, []meta.Package{{Name: "Real.Package", ResolvedVersion: "2.0.1"}}, packages)
}

func TestParseFrameworks(t *testing.T) {
	output := readTestdata(t, "list-frameworks.txt")

	for name, tc := range map[string]struct {
		platform string
		expected []string
	}{
		"android": {"android", []string{"net8.0-android34.0", "net8.0-android33.0", "net7.0-android33.0"}},
		"ios":     {"ios", []string{"net8.0-ios17.2"}},
		"missing": {"maccatalyst", []string{}},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, parseFrameworks(output, tc.platform))
		})
	}
}

func TestParseGlobalPackages(t *testing.T) {
	root, err := parseGlobalPackages("info : some notice\nglobal-packages: /home/user/.nuget/packages/\n")
	require.NoError(t, err)
	require.Equal(t, "/home/user/.nuget/packages/", root)

	_, err = parseGlobalPackages("error: unknown command\n")
	require.ErrorIs(t, err, errNoDependencyCache)
}

func TestCommandArgs(t *testing.T) {
	require.Equal(t,
		[]string{"dotnet", "list", "My App.csproj", "package", "--framework", "net8.0-android34.0", "--include-transitive"},
		ListPackagesCmd.Args("My App.csproj", "net8.0-android34.0"),
	)
	require.Equal(t, []string{"dotnet", "--version"}, VersionCmd.Parse())
}
