package webqa

// LinkExtractor discovers crawlable links in a page.
type LinkExtractor interface {
	// ExtractLinks parses HTML served at pageURL and returns the absolute
	// URLs of links on the same domain, in document order.
	ExtractLinks(html string, pageURL string) ([]string, error)
}
