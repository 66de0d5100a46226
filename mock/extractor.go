package mock

import "github.com/fwojciec/webqa"

var (
	_ webqa.Extractor     = (*Extractor)(nil)
	_ webqa.Converter     = (*Converter)(nil)
	_ webqa.LinkExtractor = (*LinkExtractor)(nil)
)

// Extractor is a mock implementation of webqa.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webqa.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webqa.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of webqa.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// LinkExtractor is a mock implementation of webqa.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, pageURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, pageURL string) ([]string, error) {
	return l.ExtractLinksFn(html, pageURL)
}
