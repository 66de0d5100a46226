package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.SitemapService = (*SitemapService)(nil)

type SitemapService struct {
	DiscoverFn func(ctx context.Context, rootURL string, filter *webqa.URLFilter) ([]webqa.SitemapEntry, error)
}

func (s *SitemapService) Discover(ctx context.Context, rootURL string, filter *webqa.URLFilter) ([]webqa.SitemapEntry, error) {
	return s.DiscoverFn(ctx, rootURL, filter)
}
