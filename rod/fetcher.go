// Package rod fetches JavaScript-rendered pages with a headless browser.
package rod

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ webqa.Fetcher = (*Fetcher)(nil)

const (
	// DefaultFetchTimeout bounds a single page load.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxPages is the number of pages served before the browser is
	// relaunched. Chrome's memory baseline grows with every page.
	DefaultMaxPages = 75
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are fetched before the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout  time.Duration
	maxPages int64

	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount atomic.Int64
	closed    atomic.Bool
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to pageURL and returns the rendered HTML, with open
// shadow roots serialized inline. Context errors are returned as is; other
// browser failures are EINTERNAL so the crawler retries them.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if f.closed.Load() {
		return "", webqa.Errorf(webqa.EINVALID, "fetcher is closed")
	}
	if u, err := url.Parse(pageURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", webqa.Errorf(webqa.EINVALID, "invalid page URL %q", pageURL)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.currentBrowser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", renderError(ctx, pageURL, err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(pageURL); err != nil {
		return "", renderError(ctx, pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", renderError(ctx, pageURL, err)
	}

	obj, err := page.Eval(serializeJS)
	if err != nil {
		return "", renderError(ctx, pageURL, err)
	}
	f.pageCount.Add(1)

	return obj.Value.Str(), nil
}

func renderError(ctx context.Context, pageURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return webqa.Errorf(webqa.EINTERNAL, "render %s: %v", pageURL, err)
}

// serializeJS returns the document HTML including open shadow roots.
const serializeJS = `() => document.documentElement.getHTML
	? "<!DOCTYPE html>" + document.documentElement.getHTML({serializableShadowRoots: true, shadowRoots: Array.from(document.querySelectorAll("*")).map(e => e.shadowRoot).filter(Boolean)})
	: document.documentElement.outerHTML`

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// currentBrowser returns the live browser, relaunching it first when the
// page budget is spent. A failed relaunch keeps the old browser.
func (f *Fetcher) currentBrowser() *rod.Browser {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxPages > 0 && f.pageCount.Load() >= f.maxPages {
		oldBrowser, oldLauncher := f.browser, f.launcher
		if err := f.launch(); err == nil {
			_ = oldBrowser.Close()
			oldLauncher.Kill()
			f.pageCount.Store(0)
		}
	}
	return f.browser
}

// launch starts a browser with stability flags. Callers other than
// NewFetcher must hold mu.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}

// shutdown must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
