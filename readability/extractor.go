// Package readability selects the main article of a page with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/webqa"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements webqa.Extractor at compile time.
var _ webqa.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	// Fallback handles pages where readability finds no article, such as
	// landing pages made of short blocks. Nil means such pages fail.
	Fallback webqa.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor(fallback webqa.Extractor) *Extractor {
	return &Extractor{Fallback: fallback}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*webqa.ExtractResult, error) {
	return e.ExtractURL(rawHTML, "")
}

// ExtractURL is Extract with the page URL, which lets readability resolve
// relative links and images inside the article.
func (e *Extractor) ExtractURL(rawHTML, pageURL string) (*webqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if pageURL != "" {
		var err error
		if u, err = url.Parse(pageURL); err != nil {
			return nil, webqa.Errorf(webqa.EINVALID, "invalid page URL %q", pageURL)
		}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		if e.Fallback != nil {
			return e.Fallback.Extract(rawHTML)
		}
		if err != nil {
			return nil, webqa.Errorf(webqa.EINVALID, "readability: %v", err)
		}
		return nil, webqa.Errorf(webqa.EINVALID, "readability found no article")
	}

	return &webqa.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
