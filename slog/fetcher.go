// Package slog decorates webqa services with structured logging.
// Each decorator writes one record per call with its duration and error.
package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
)

var _ webqa.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher records every page fetch. Successful fetches log at debug
// since a crawl makes hundreds of them; failures log at warn with their
// webqa error code, except canceled fetches which are expected on shutdown.
type LoggingFetcher struct {
	next   webqa.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webqa.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, pageURL string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL, "bytes", len(html), "duration", time.Since(begin)}
		switch {
		case err == nil:
			f.logger.Debug("fetch", attrs...)
		case errors.Is(err, context.Canceled):
			f.logger.Debug("fetch canceled", attrs...)
		default:
			f.logger.Warn("fetch", append(attrs, "code", webqa.ErrorCode(err), "err", err)...)
		}
	}(time.Now())
	return f.next.Fetch(ctx, pageURL)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
