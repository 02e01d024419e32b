// SPDX-License-Identifier: Apache-2.0

package nuget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	releasecmd "sigs.k8s.io/release-utils/command"

	"github.com/opensbom-generator/nuget-licenses/internal/helper"
	"github.com/opensbom-generator/nuget-licenses/meta"
	"github.com/opensbom-generator/nuget-licenses/plugin"
)

// DefaultCommandTimeout bounds every dotnet invocation
const DefaultCommandTimeout = 2 * time.Second

const (
	assetsFile        = "obj/project.assets.json"
	solutionExtension = ".sln"
)

// Options ...
type Options struct {
	// CommandTimeout of zero means DefaultCommandTimeout
	CommandTimeout time.Duration
	// IgnorePrefixes drops packages whose id starts with any of these, e.g. the project's own namespace
	IgnorePrefixes []string
}

type NuGet struct {
	metadata plugin.Metadata
	opts     Options
	command  *helper.Cmd
}

// New ...
func New(opts Options) *NuGet {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}

	return &NuGet{
		metadata: plugin.Metadata{
			Name:       "NuGet Package Manager",
			Slug:       "nuget",
			Manifest:   []string{"*.csproj", "*.fsproj", "*.vbproj", "*.sln"},
			ModulePath: []string{assetsFile},
		},
		opts: opts,
	}
}

// GetMetadata ...
func (m *NuGet) GetMetadata() plugin.Metadata {
	return m.metadata
}

// IsValid accepts a project or solution file, or a directory holding one
func (m *NuGet) IsValid(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	for _, pattern := range m.metadata.Manifest {
		if !info.IsDir() {
			if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
				return true
			}
			continue
		}
		if matches, _ := filepath.Glob(filepath.Join(path, pattern)); len(matches) > 0 {
			return true
		}
	}
	return false
}

// HasModulesInstalled checks that the project has been restored
func (m *NuGet) HasModulesInstalled(path string) error {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
		if filepath.Ext(path) == solutionExtension {
			// restore state lives next to each project of the solution
			return nil
		}
	} else if solutions, _ := filepath.Glob(filepath.Join(dir, "*"+solutionExtension)); len(solutions) > 0 {
		return nil
	}

	for i := range m.metadata.ModulePath {
		if helper.Exists(filepath.Join(dir, m.metadata.ModulePath[i])) {
			return nil
		}
	}
	return errDependenciesNotFound
}

// GetVersion ...
func (m *NuGet) GetVersion(ctx context.Context) (string, error) {
	if err := m.buildCmd(VersionCmd, "", ""); err != nil {
		return "", err
	}

	out, err := m.command.Output(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ResolveFramework picks the highest target framework of the project built for platform
func (m *NuGet) ResolveFramework(ctx context.Context, path string, platform string) (string, error) {
	if err := m.buildCmd(ListFrameworksCmd, path, ""); err != nil {
		return "", err
	}

	out, err := m.command.Output(ctx)
	if err != nil {
		return "", err
	}

	frameworks := parseFrameworks(out, platform)
	if len(frameworks) == 0 {
		return "", fmt.Errorf("%s: %w", platform, errFrameworkNotFound)
	}
	if len(frameworks) > 1 {
		log.Debugf("Frameworks matching %s: %s", platform, strings.Join(frameworks, ", "))
	}

	return frameworks[0], nil
}

// ListPackages returns every resolved package, transitive ones included, in listing order
func (m *NuGet) ListPackages(ctx context.Context, path string, framework string) ([]meta.Package, error) {
	if err := m.buildCmd(ListPackagesCmd, path, framework); err != nil {
		return nil, err
	}

	buffer := new(bytes.Buffer)
	execErr := m.command.Execute(ctx, buffer)
	defer buffer.Reset()

	var exitErr *helper.ExitError
	if execErr != nil && !errors.As(execErr, &exitErr) {
		return nil, execErr
	}

	packages, err := parsePackages(splitLines(buffer.String()))
	if err != nil {
		return nil, err
	}
	if execErr != nil {
		return nil, execErr
	}

	filtered := packages[:0]
	for _, pkg := range packages {
		if m.ignored(pkg.Name) {
			log.Debugf("Ignoring %s %s", pkg.Name, pkg.ResolvedVersion)
			continue
		}
		filtered = append(filtered, pkg)
	}

	return filtered, nil
}

// GetCacheRoot returns the global packages folder
func (m *NuGet) GetCacheRoot(ctx context.Context) (string, error) {
	if err := m.buildCmd(GlobalPackagesCmd, "", ""); err != nil {
		return "", err
	}

	out, err := m.command.Output(ctx)
	if err != nil {
		return "", err
	}

	root, err := parseGlobalPackages(out)
	if err != nil {
		return "", err
	}
	if !helper.Exists(root) {
		return "", fmt.Errorf("%s: %w", root, errNoDependencyCache)
	}

	return root, nil
}

// ReadLicense reads the license declaration from the package's nuspec
func (m *NuGet) ReadLicense(cacheRoot string, pkg meta.Package) (*meta.License, error) {
	license, err := ReadNuspec(NuspecPath(cacheRoot, pkg))
	if err != nil {
		return nil, fmt.Errorf("reading nuspec of %s %s: %w", pkg.Name, pkg.ResolvedVersion, err)
	}

	license.ResolvedVersion = pkg.ResolvedVersion
	if license.ID == "" {
		license.ID = pkg.Name
	}

	return license, nil
}

func (m *NuGet) ignored(name string) bool {
	for _, prefix := range m.opts.IgnorePrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (m *NuGet) buildCmd(cmd command, project, framework string) error {
	cmdArgs := cmd.Args(project, framework)
	if cmdArgs[0] != dotnetCmd || !releasecmd.Available(dotnetCmd) {
		return errNoDotnetCommand
	}

	m.command = helper.NewCmd(helper.CmdOptions{
		Name:    cmdArgs[0],
		Args:    cmdArgs[1:],
		Timeout: m.opts.CommandTimeout,
	})

	return m.command.Build()
}
