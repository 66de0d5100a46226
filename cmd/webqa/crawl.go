package main

import (
	"fmt"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	filter, err := webqa.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.DisplayURL(event.URL, 60), event.Error)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, filter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d pages to %s (%s)\n", result.Saved, deps.TextDir, result.Summary())
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  Skipped %d pages\n", result.Failed)
	}
	return nil
}
