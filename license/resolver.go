// SPDX-License-Identifier: Apache-2.0

package license

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/opensbom-generator/nuget-licenses/internal/helper"
	"github.com/opensbom-generator/nuget-licenses/meta"
)

const placeholderFormat = "License text could not be retrieved.\nURL: %s\nStatus: %s\n"

// Options ...
type Options struct {
	// TargetDir receives the license texts
	TargetDir string
	// CacheRoot is the global packages folder
	CacheRoot string
	Client    *helper.Client
	// Table of zero value means a fresh sha256 table
	Table *URLTable
	// Rules of zero value means DownloadRules
	Rules []Rule
	// DetectLicenses fills DetectedLicense from files on disk
	DetectLicenses bool
}

// Resolver materializes the license text of package declarations
type Resolver struct {
	opts  Options
	group singleflight.Group
}

// outcome of a url resolution shared by every caller waiting on the same name
type outcome struct {
	link string
}

// NewResolver ...
func NewResolver(opts Options) *Resolver {
	if opts.Client == nil {
		opts.Client = helper.NewClient(helper.ClientOptions{})
	}
	if opts.Table == nil {
		opts.Table = NewURLTable(nil)
	}
	if opts.Rules == nil {
		opts.Rules = DownloadRules
	}
	return &Resolver{opts: opts}
}

// Resolve rewrites l into its resolved form and makes sure the referenced
// text, or a placeholder, exists below the target directory. Fetch
// failures are logged and contained; the returned error means the target
// directory could not be written or ctx is done.
func (r *Resolver) Resolve(ctx context.Context, l *meta.License) error {
	logger := log.WithField("package", l.ID)

	switch l.Kind {
	case meta.KindNone:
		if l.LicenseURL == "" {
			logger.Debug("No license declared")
			if r.opts.CacheRoot != "" {
				r.detect(logger, l, l.Package().CacheDir(r.opts.CacheRoot))
			}
			return nil
		}
		return r.resolveURL(ctx, logger, l)
	case meta.KindExpression:
		return r.resolveExpression(ctx, logger, l)
	case meta.KindFile:
		return r.resolveFile(logger, l)
	default:
		return nil
	}
}

func (r *Resolver) resolveURL(ctx context.Context, logger *log.Entry, l *meta.License) error {
	name, err := r.opts.Table.Lookup(l.LicenseURL)
	if err != nil {
		return err
	}
	dst := filepath.Join(r.opts.TargetDir, name)

	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		return r.fetchURL(ctx, logger, l.LicenseURL, dst)
	})
	if err != nil {
		return err
	}

	if link := v.(outcome).link; link != "" {
		l.License = link
		l.Kind = meta.KindURL
		return nil
	}

	l.License = name
	l.Kind = meta.KindHash
	return nil
}

// fetchURL probes url, decides between downloading and linking, and executes the decision
func (r *Resolver) fetchURL(ctx context.Context, logger *log.Entry, url, dst string) (outcome, error) {
	if helper.Exists(dst) {
		logger.Debugf("License text of %s already present", url)
		return outcome{}, nil
	}

	probe, err := r.probe(ctx, logger, url)
	if err != nil {
		return outcome{}, r.contain(ctx, logger, url, dst, err)
	}
	defer probe.Close() // nolint:errcheck

	target := Target{URL: RewriteGitHubURL(probe.URL), ContentType: probe.ContentType}
	rule, download := Decide(target, r.opts.Rules)
	if !download {
		logger.Debugf("Linking %s (%s)", target.URL, target.ContentType)
		return outcome{link: target.URL}, nil
	}
	logger.Debugf("Downloading %s: %s", target.URL, rule)

	if probe.Body != nil && target.URL == probe.URL {
		if err := helper.WriteFile(dst, probe.Body); err != nil {
			return outcome{}, r.contain(ctx, logger, url, dst, err)
		}
		return outcome{}, nil
	}

	// free the connection slot before asking for another one
	probe.Close() // nolint:errcheck
	if err := r.opts.Client.Download(ctx, target.URL, dst); err != nil {
		return outcome{}, r.contain(ctx, logger, url, dst, err)
	}
	return outcome{}, nil
}

// probe asks for the headers of url, falling back to GET for servers that refuse HEAD
func (r *Resolver) probe(ctx context.Context, logger *log.Entry, url string) (*helper.Response, error) {
	resp, err := r.opts.Client.Head(ctx, url)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logger.Debugf("%v, retrying with GET", err)
	return r.opts.Client.Get(ctx, url)
}

// contain replaces a failed fetch with a placeholder naming url and the cause
func (r *Resolver) contain(ctx context.Context, logger *log.Entry, url, dst string, cause error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := cause.Error()
	var fetchErr *helper.FetchError
	if errors.As(cause, &fetchErr) {
		status = fetchErr.Status()
	}

	logger.Warnf("License text of %s could not be retrieved: %s", url, status)
	return writePlaceholder(dst, url, status)
}

func (r *Resolver) resolveExpression(ctx context.Context, logger *log.Entry, l *meta.License) error {
	for _, id := range SplitExpression(l.License) {
		if err := localName(id); err != nil {
			logger.Warnf("Skipping license id: %v", err)
			continue
		}

		dst := filepath.Join(r.opts.TargetDir, id)
		_, err, _ := r.group.Do("spdx:"+id, func() (interface{}, error) {
			if helper.Exists(dst) {
				return nil, nil
			}
			return nil, r.opts.Client.Download(ctx, SPDXTextURL(id), dst)
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Warnf("Text of %s could not be retrieved: %v", id, err)
		}
	}
	return nil
}

func (r *Resolver) resolveFile(logger *log.Entry, l *meta.License) error {
	name := strings.ReplaceAll(l.License, `\`, "/")
	if err := localName(name); err != nil {
		logger.Warnf("Skipping license file: %v", err)
		return nil
	}
	if err := localName(l.ID); err != nil {
		logger.Warnf("Skipping license file: %v", err)
		return nil
	}

	src := filepath.Join(l.Package().CacheDir(r.opts.CacheRoot), filepath.FromSlash(name))
	dst := filepath.Join(r.opts.TargetDir, l.ID, filepath.FromSlash(name))
	if err := copyFile(src, dst); err != nil {
		logger.Warnf("License file %s could not be copied: %v", src, err)
		if err := writePlaceholder(dst, src, err.Error()); err != nil {
			return err
		}
	}

	l.License = path.Join(l.ID, name)
	r.detect(logger, l, filepath.Join(r.opts.TargetDir, l.ID))
	return nil
}

func (r *Resolver) detect(logger *log.Entry, l *meta.License, dir string) {
	if !r.opts.DetectLicenses || !helper.Exists(dir) {
		return
	}

	detected, err := helper.GetLicenses(dir)
	if err != nil {
		logger.Debugf("No license detected in %s: %v", dir, err)
		return
	}
	logger.Debugf("Detected %s in %s (confidence %.2f)", detected.ID, dir, detected.Confidence)
	l.DetectedLicense = detected.ID
}

func copyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	return helper.WriteFile(dst, f)
}

func writePlaceholder(dst, url, status string) error {
	if err := helper.WriteFile(dst, strings.NewReader(fmt.Sprintf(placeholderFormat, url, status))); err != nil {
		return fmt.Errorf("writing placeholder %s: %w", dst, err)
	}
	return nil
}
