package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
)

var _ webqa.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap discovery with the number of pages
// found and the most recent lastmod among them.
type LoggingSitemapService struct {
	next   webqa.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next webqa.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) Discover(ctx context.Context, rootURL string, filter *webqa.URLFilter) (entries []webqa.SitemapEntry, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"root", rootURL,
			"pages", len(entries),
			"filtered", filter != nil,
			"duration", time.Since(begin),
		}
		if newest := newestLastMod(entries); !newest.IsZero() {
			attrs = append(attrs, "newest", newest.Format(time.DateOnly))
		}
		if err != nil {
			s.logger.Warn("sitemap", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("sitemap", attrs...)
	}(time.Now())
	return s.next.Discover(ctx, rootURL, filter)
}

func newestLastMod(entries []webqa.SitemapEntry) time.Time {
	var newest time.Time
	for _, e := range entries {
		if e.LastMod.After(newest) {
			newest = e.LastMod
		}
	}
	return newest
}
