// SPDX-License-Identifier: Apache-2.0

package modules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opensbom-generator/nuget-licenses/internal/helper"
	"github.com/opensbom-generator/nuget-licenses/license"
	"github.com/opensbom-generator/nuget-licenses/meta"
	"github.com/opensbom-generator/nuget-licenses/nuget"
	"github.com/opensbom-generator/nuget-licenses/plugin"
)

// DefaultWorkers bounds the packages processed at once
const DefaultWorkers = 8

var (
	errNoPluginAvailable = errors.New("no plugin system available for current path")
	errNoTargetDir       = errors.New("no target directory given")
)

// Manager ...
type Manager struct {
	Config   Config
	Plugin   plugin.Plugin
	licenses []*meta.License
}

// Config ...
type Config struct {
	// Path is the project, solution or directory to inspect
	Path      string
	Platform  string
	Framework string
	TargetDir string

	IgnorePrefixes []string
	CommandTimeout time.Duration

	Workers        int
	Connections    int64
	HTTPTimeout    time.Duration
	DetectLicenses bool

	// Client of zero value is built from Connections and HTTPTimeout
	Client *helper.Client
}

// New returns a manager for the NuGet project at cfg.Path
func New(cfg Config) (*Manager, error) {
	p := nuget.New(nuget.Options{
		CommandTimeout: cfg.CommandTimeout,
		IgnorePrefixes: cfg.IgnorePrefixes,
	})
	if !p.IsValid(cfg.Path) {
		return nil, fmt.Errorf("%s: %w", cfg.Path, errNoPluginAvailable)
	}

	return &Manager{
		Config: cfg,
		Plugin: p,
	}, nil
}

// Run lists the packages, materializes their license texts below the
// target directory and writes the manifest
func (m *Manager) Run(ctx context.Context) error {
	if m.Config.TargetDir == "" {
		return errNoTargetDir
	}
	if err := os.MkdirAll(m.Config.TargetDir, 0o755); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	modulePath := m.Config.Path
	version, err := m.Plugin.GetVersion(ctx)
	if err != nil {
		return err
	}
	log.Infof("Current %s version %s", m.Plugin.GetMetadata().Name, version)

	if moduleErr := m.Plugin.HasModulesInstalled(modulePath); moduleErr != nil {
		return moduleErr
	}

	framework := m.Config.Framework
	if framework == "" {
		framework, err = m.Plugin.ResolveFramework(ctx, modulePath, m.Config.Platform)
		if err != nil {
			return err
		}
	}
	log.Infof("Target framework %s", framework)

	packages, err := m.Plugin.ListPackages(ctx, modulePath, framework)
	if err != nil {
		return err
	}
	log.Infof("Found %d packages", len(packages))

	cacheRoot, err := m.Plugin.GetCacheRoot(ctx)
	if err != nil {
		return err
	}
	log.Debugf("Global packages folder %s", cacheRoot)

	licenses, unread, err := m.readLicenses(ctx, cacheRoot, packages)
	if err != nil {
		return err
	}

	if err := m.resolve(ctx, cacheRoot, licenses, unread); err != nil {
		return err
	}
	m.licenses = licenses

	manifest := filepath.Join(m.Config.TargetDir, ManifestFile)
	if err := WriteManifest(manifest, licenses); err != nil {
		return err
	}
	log.Infof("Wrote %s", manifest)

	return nil
}

// GetLicenses returns the records of the last Run in listing order
func (m *Manager) GetLicenses() []*meta.License {
	return m.licenses
}

func (m *Manager) workers() int {
	if m.Config.Workers > 0 {
		return m.Config.Workers
	}
	return DefaultWorkers
}

// readLicenses reads every nuspec. An unreadable one keeps its package in
// the output with an empty declaration and is flagged in unread.
func (m *Manager) readLicenses(ctx context.Context, cacheRoot string, packages []meta.Package) (licenses []*meta.License, unread []bool, err error) {
	licenses = make([]*meta.License, len(packages))
	unread = make([]bool, len(packages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i := range packages {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			l, err := m.Plugin.ReadLicense(cacheRoot, packages[i])
			if err != nil {
				log.WithField("package", packages[i].Name).Warnf("Skipping license resolution: %v", err)
				l = meta.Placeholder(packages[i])
				unread[i] = true
			}
			licenses[i] = l
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return licenses, unread, nil
}

func (m *Manager) resolve(ctx context.Context, cacheRoot string, licenses []*meta.License, unread []bool) error {
	client := m.Config.Client
	if client == nil {
		client = helper.NewClient(helper.ClientOptions{
			Connections: m.Config.Connections,
			Timeout:     m.Config.HTTPTimeout,
		})
	}

	resolver := license.NewResolver(license.Options{
		TargetDir:      m.Config.TargetDir,
		CacheRoot:      cacheRoot,
		Client:         client,
		DetectLicenses: m.Config.DetectLicenses,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i := range licenses {
		if unread[i] {
			continue
		}
		l := licenses[i]
		g.Go(func() error {
			return resolver.Resolve(ctx, l)
		})
	}

	return g.Wait()
}

// ExitCode maps the result of Run to a process exit status: the exit code of
// a failed dotnet invocation, 1 for any other failure
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *helper.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
