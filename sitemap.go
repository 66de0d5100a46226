package webqa

import (
	"context"
	"regexp"
	"slices"
	"time"
)

// SitemapEntry is a page a site lists in its sitemap.
type SitemapEntry struct {
	URL string

	// LastMod is the page's last modification, zero when not given.
	LastMod time.Time
}

// SitemapService discovers crawl candidates from website sitemaps.
type SitemapService interface {
	// Discover returns the pages listed in the sitemaps of rootURL's site,
	// found through robots.txt or /sitemap.xml. Only http(s) pages on
	// rootURL's host that pass filter are returned, each once, in sitemap
	// order; a nil filter passes all. Entries read before a failure are
	// returned together with the error.
	Discover(ctx context.Context, rootURL string, filter *URLFilter) ([]SitemapEntry, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns into a URLFilter.
// It returns nil when both lists are empty.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, func(re *regexp.Regexp) bool {
		return re.MatchString(url)
	}) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, func(re *regexp.Regexp) bool {
		return re.MatchString(url)
	})
}
