// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	DefaultConnections = 2
	DefaultTimeout     = 30 * time.Second
)

// FetchError describes a failed HEAD or GET. StatusCode is zero when the
// request failed at the transport level.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Status renders the status code, or the transport error when there is none
func (e *FetchError) Status() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown"
}

// ClientOptions ...
type ClientOptions struct {
	// Connections bounds the number of requests in flight at once
	Connections int64
	// Timeout applies to each request including reading its body
	Timeout time.Duration
}

type Client struct {
	HTTP *http.Client
	sem  *semaphore.Weighted
}

// NewClient returns a client that never reuses connections and allows at
// most opts.Connections concurrent requests
func NewClient(opts ClientOptions) *Client {
	if opts.Connections <= 0 {
		opts.Connections = DefaultConnections
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true

	return &Client{
		HTTP: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		sem: semaphore.NewWeighted(opts.Connections),
	}
}

// Response is an open response. The connection slot it holds is released by Close.
type Response struct {
	// URL is the final URL after redirects
	URL         string
	ContentType string
	StatusCode  int
	Body        io.ReadCloser

	release func()
}

// Close closes the body and frees the connection slot
func (r *Response) Close() error {
	var err error
	if r.Body != nil {
		err = r.Body.Close()
	}
	if r.release != nil {
		r.release()
		r.release = nil
	}
	return err
}

// Head issues a HEAD request following redirects. The returned response has no body.
func (c *Client) Head(ctx context.Context, url string) (*Response, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}
	resp.Close() // nolint:errcheck
	resp.Body = nil
	return resp, nil
}

// Get issues a GET request following redirects. The caller must Close the response.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url)
}

// Download fetches url and writes the body to dst
func (c *Client) Download(ctx context.Context, url, dst string) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Close()

	if err := WriteFile(dst, resp.Body); err != nil {
		return &FetchError{Method: http.MethodGet, URL: url, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &FetchError{Method: method, URL: url, Err: err}
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &FetchError{Method: method, URL: url, Err: err}
	}
	release := func() { c.sem.Release(1) }

	r, err := c.HTTP.Do(req)
	if err != nil {
		release()
		return nil, &FetchError{Method: method, URL: url, Err: err}
	}

	if r.StatusCode < 200 || r.StatusCode > 299 {
		r.Body.Close() // nolint:errcheck
		release()
		return nil, &FetchError{Method: method, URL: url, StatusCode: r.StatusCode}
	}

	return &Response{
		URL:         r.Request.URL.String(),
		ContentType: r.Header.Get("Content-Type"),
		StatusCode:  r.StatusCode,
		Body:        r.Body,
		release:     release,
	}, nil
}

// WriteFile streams r into path through a temporary file in the same directory
func WriteFile(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
