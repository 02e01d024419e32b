// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"context"

	"github.com/opensbom-generator/nuget-licenses/meta"
)

// Plugin lists the resolved packages of a project and reads their license declarations
type Plugin interface {
	GetMetadata() Metadata
	IsValid(path string) bool
	HasModulesInstalled(path string) error
	GetVersion(ctx context.Context) (string, error)
	ResolveFramework(ctx context.Context, path string, platform string) (string, error)
	ListPackages(ctx context.Context, path string, framework string) ([]meta.Package, error)
	GetCacheRoot(ctx context.Context) (string, error)
	ReadLicense(cacheRoot string, pkg meta.Package) (*meta.License, error)
}

// Metadata ...
type Metadata struct {
	Name       string
	Slug       string
	Manifest   []string
	ModulePath []string
}
