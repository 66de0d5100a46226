package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/webqa"
)

const (
	// DefaultMaxSitemaps bounds the sitemap files read for one site.
	DefaultMaxSitemaps = 50

	// DefaultMaxSitemapURLs bounds the pages taken from a site's sitemaps.
	DefaultMaxSitemapURLs = 1000

	maxSitemapBytes = 50 << 20
)

// assetExts are file types listed in sitemaps that never hold page text.
var assetExts = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".svg": true, ".webp": true, ".mp4": true, ".mp3": true, ".zip": true,
	".xml": true, ".gz": true, ".css": true, ".js": true,
}

var _ webqa.SitemapService = (*SitemapService)(nil)

// SitemapService reads robots.txt and sitemap XML over HTTP.
type SitemapService struct {
	client *http.Client

	UserAgent   string
	MaxSitemaps int // 0 uses DefaultMaxSitemaps
	MaxURLs     int // 0 uses DefaultMaxSitemapURLs
}

// NewSitemapService returns a SitemapService using client, or
// http.DefaultClient when client is nil.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// Discover walks the site's sitemaps breadth first, following sitemap
// indexes, and collects the pages that are crawl candidates for rootURL.
// Sitemaps that fail to load or parse are skipped and reported in the
// returned error; a site without any sitemap yields no entries and no error.
func (s *SitemapService) Discover(ctx context.Context, rootURL string, filter *webqa.URLFilter) ([]webqa.SitemapEntry, error) {
	root, err := url.Parse(rootURL)
	if err != nil || root.Host == "" || (root.Scheme != "http" && root.Scheme != "https") {
		return nil, webqa.Errorf(webqa.EINVALID, "invalid root URL %q", rootURL)
	}
	site := &url.URL{Scheme: root.Scheme, Host: root.Host}

	queue, guessed, err := s.locate(ctx, site)
	if err != nil {
		return nil, err
	}

	c := &candidates{host: root.Host, filter: filter, limit: orDefault(s.MaxURLs, DefaultMaxSitemapURLs), seen: map[string]bool{}}
	visited := map[string]bool{}
	var errs []error
	for len(queue) > 0 && len(visited) < orDefault(s.MaxSitemaps, DefaultMaxSitemaps) && !c.full() {
		loc := queue[0]
		queue = queue[1:]
		if visited[loc] {
			continue
		}
		visited[loc] = true

		doc, err := s.read(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return c.entries, ctx.Err()
			}
			if guessed && webqa.ErrorCode(err) == webqa.ENOTFOUND {
				continue
			}
			errs = append(errs, err)
			continue
		}

		switch top := doc.Root(); top.Tag {
		case "sitemapindex":
			for _, el := range top.SelectElements("sitemap") {
				if child := childText(el, "loc"); child != "" {
					queue = append(queue, child)
				}
			}
		case "urlset":
			for _, el := range top.SelectElements("url") {
				c.add(childText(el, "loc"), childText(el, "lastmod"))
			}
		default:
			errs = append(errs, webqa.Errorf(webqa.EINVALID, "%s: unexpected root element <%s>", loc, top.Tag))
		}
	}
	return c.entries, errors.Join(errs...)
}

// locate returns the sitemaps declared in robots.txt, or the conventional
// /sitemap.xml with guessed set when robots.txt declares none.
func (s *SitemapService) locate(ctx context.Context, site *url.URL) (locs []string, guessed bool, err error) {
	body, err := s.get(ctx, site.JoinPath("robots.txt").String())
	if err == nil {
		defer body.Close()
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			name, value, ok := strings.Cut(line, ":")
			if ok && strings.EqualFold(strings.TrimSpace(name), "sitemap") {
				if loc := strings.TrimSpace(value); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
		if len(locs) > 0 {
			return locs, false, nil
		}
	} else if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	return []string{site.JoinPath("sitemap.xml").String()}, true, nil
}

// read fetches and parses one sitemap. Locations ending in .gz are
// decompressed.
func (s *SitemapService) read(ctx context.Context, loc string) (*etree.Document, error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = io.LimitReader(body, maxSitemapBytes)
	if strings.HasSuffix(strings.ToLower(loc), ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, webqa.Errorf(webqa.EINVALID, "%s: %v", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, webqa.Errorf(webqa.EINVALID, "%s: parse sitemap: %v", loc, err)
	}
	if doc.Root() == nil {
		return nil, webqa.Errorf(webqa.EINVALID, "%s: empty sitemap", loc)
	}
	return doc, nil
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, webqa.Errorf(webqa.EINVALID, "invalid sitemap URL %q", target)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, statusError(resp.StatusCode, target)
	}
	return resp.Body, nil
}

// candidates collects the sitemap pages a crawl of one host may visit.
type candidates struct {
	host    string
	filter  *webqa.URLFilter
	limit   int
	seen    map[string]bool
	entries []webqa.SitemapEntry
}

func (c *candidates) full() bool {
	return len(c.entries) >= c.limit
}

func (c *candidates) add(loc, lastmod string) {
	if loc == "" || c.full() {
		return
	}
	u, err := url.Parse(loc)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || !strings.EqualFold(u.Host, c.host) {
		return
	}
	if assetExts[strings.ToLower(path.Ext(u.Path))] {
		return
	}
	u.Fragment = ""
	page := u.String()
	if c.seen[page] || !c.filter.Match(page) {
		return
	}
	c.seen[page] = true
	c.entries = append(c.entries, webqa.SitemapEntry{URL: page, LastMod: parseLastMod(lastmod)})
}

// lastModLayouts are the W3C datetime forms sitemaps use.
var lastModLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02"}

func parseLastMod(s string) time.Time {
	for _, layout := range lastModLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
