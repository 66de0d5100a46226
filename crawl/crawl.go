// Package crawl collects the text of a site's pages.
// It coordinates link discovery, fetching, extraction, and storage of the
// pages linked from a site's root.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/bloom"
	"github.com/fwojciec/webqa/retry"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency fetches one page at a time.
const DefaultConcurrency = 1

// Crawler orchestrates the crawling of a site.
type Crawler struct {
	Fetcher      webqa.Fetcher
	Links        webqa.LinkExtractor
	Extractor    webqa.Extractor
	Converter    webqa.Converter
	Pages        webqa.PageStore
	Sitemaps     webqa.SitemapService // optional
	TokenCounter webqa.TokenCounter   // optional
	RateLimiter  webqa.DomainLimiter  // optional
	Concurrency  int
	RetryDelays  []time.Duration // nil uses retry.DefaultDelays
	Logger       *slog.Logger
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Saved  int
	Failed int
	Bytes  int
	Tokens int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position int
	page     *webqa.Page
	err      error
}

// Crawl fetches the page at sourceURL, follows every same-host link on it
// that passes filter, and saves each page's text to the page store in
// discovery order. Pages that fail after retries are reported and skipped.
// The store is committed only when the crawl completes.
func (c *Crawler) Crawl(ctx context.Context, sourceURL string, filter *webqa.URLFilter, progress ProgressFunc) (_ *Result, err error) {
	defer func() {
		if err != nil {
			_ = c.Pages.Abort()
		}
	}()

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	urls, err := c.discover(ctx, sourceURL, filter, logger)
	if err != nil {
		return nil, err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(urls)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan pageResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- c.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results, then save in discovery order.
	results := make([]pageResult, total)
	var completed atomic.Int64
	var result Result
	for r := range resultCh {
		n := int(completed.Add(1))
		results[r.position] = r
		if r.err != nil {
			result.Failed++
			logger.Warn("page failed", "url", urls[r.position], "err", r.err)
			progress(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: urls[r.position], Error: r.err})
			continue
		}
		progress(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: urls[r.position]})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.err != nil {
			continue
		}
		if err := c.Pages.Save(ctx, r.page); err != nil {
			return nil, fmt.Errorf("save %s: %w", r.page.URL, err)
		}
		result.Saved++
		result.Bytes += len(r.page.Content)
		if c.TokenCounter != nil {
			if tokens, err := c.TokenCounter.CountTokens(ctx, r.page.Content); err == nil {
				result.Tokens += tokens
			}
		}
	}

	if err := c.Pages.Commit(); err != nil {
		return nil, fmt.Errorf("commit pages: %w", err)
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	logger.Info("crawl finished", "source", sourceURL, "saved", result.Saved, "failed", result.Failed)
	return &result, nil
}

// discover returns the deduplicated, filtered URLs linked from the root
// page, followed by any sitemap URLs not already linked.
func (c *Crawler) discover(ctx context.Context, sourceURL string, filter *webqa.URLFilter, logger *slog.Logger) ([]string, error) {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, webqa.Errorf(webqa.EINVALID, "invalid source URL %q", sourceURL)
	}

	html, err := c.fetch(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sourceURL, err)
	}

	links, err := c.Links.ExtractLinks(html, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("extract links: %w", err)
	}

	if c.Sitemaps != nil {
		entries, err := c.Sitemaps.Discover(ctx, sourceURL, filter)
		if err != nil {
			logger.Warn("sitemap discovery incomplete", "source", sourceURL, "found", len(entries), "err", err)
		}
		for _, e := range entries {
			links = append(links, e.URL)
		}
	}

	seen := bloom.NewURLSet(uint(len(links)))
	urls := make([]string, 0, len(links))
	for _, link := range links {
		if !seen.Add(link) || !filter.Match(link) {
			continue
		}
		urls = append(urls, link)
	}
	logger.Debug("links discovered", "source", sourceURL, "found", len(links), "kept", len(urls))
	return urls, nil
}

// processURL fetches a page and reduces it to normalized text.
func (c *Crawler) processURL(ctx context.Context, position int, pageURL string) pageResult {
	result := pageResult{position: position}

	html, err := c.fetch(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		result.err = err
		return result
	}

	text, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}

	result.page = &webqa.Page{
		URL:     pageURL,
		Title:   strings.TrimSpace(extracted.Title),
		Content: webqa.NormalizeWhitespace(text),
	}
	return result
}

// fetch waits for the rate limiter and fetches with retries.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			return "", webqa.Errorf(webqa.EINVALID, "invalid URL %q", pageURL)
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = retry.DefaultDelays()
	}
	return retry.New(delays, c.Logger).Fetch(ctx, c.Fetcher, pageURL)
}
