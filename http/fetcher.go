// Package http fetches static pages and sitemaps over plain HTTP, without
// rendering JavaScript.
package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/webqa"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultFetchTimeout bounds one page request.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultMaxPageBytes bounds the body read for one page.
	DefaultMaxPageBytes = 10 << 20
)

var _ webqa.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page HTML with GET requests and returns it as UTF-8.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPageBytes rejects pages larger than n bytes.
func WithMaxPageBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxBytes: DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the HTML of url decoded to UTF-8 from the charset the
// response declares or the document implies.
//
// Errors are coded for retry decisions: 404 and 410 are ENOTFOUND, other
// client errors, non-HTML bodies and oversized pages are EINVALID, and
// server errors, 408 and 429 are EINTERNAL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", webqa.Errorf(webqa.EINVALID, "invalid URL %q", url)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return "", webqa.Errorf(webqa.EINVALID, "unsupported content type %q for %s", contentType, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxBytes {
		return "", webqa.Errorf(webqa.EINVALID, "page %s exceeds %d bytes", url, f.maxBytes)
	}

	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", webqa.Errorf(webqa.EINVALID, "decode %s from %s: %v", url, name, err)
	}
	return string(decoded), nil
}

// Close drops idle keep-alive connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// isHTML reports whether a Content-Type header describes an HTML document.
// A missing header is given the benefit of the doubt.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// statusError codes a non-200 response so callers can tell a missing page
// from a transient server failure.
func statusError(status int, url string) error {
	code := webqa.EINTERNAL
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		code = webqa.ENOTFOUND
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout && status != http.StatusTooManyRequests:
		code = webqa.EINVALID
	}
	return webqa.Errorf(code, "HTTP %d for %s", status, url)
}
