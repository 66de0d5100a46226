// Package trafilatura selects the main content of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/webqa"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements webqa.Extractor at compile time.
var _ webqa.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	// Fallback handles pages where trafilatura finds no content node.
	Fallback webqa.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor(fallback webqa.Extractor) *Extractor {
	return &Extractor{Fallback: fallback}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*webqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result == nil || result.ContentNode == nil {
		if e.Fallback != nil {
			return e.Fallback.Extract(rawHTML)
		}
		if err != nil {
			return nil, webqa.Errorf(webqa.EINVALID, "trafilatura: %v", err)
		}
		return nil, webqa.Errorf(webqa.EINVALID, "trafilatura found no content")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &webqa.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
