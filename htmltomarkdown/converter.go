// Package htmltomarkdown converts content HTML to Markdown text.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/webqa"
)

// Ensure Converter implements webqa.Converter at compile time.
var _ webqa.Converter = (*Converter)(nil)

// linkPattern matches Markdown links and images.
var linkPattern = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)

// Converter wraps html-to-markdown to convert HTML to Markdown. Headings,
// lists and tables keep their structure; link and image targets are dropped
// so URLs don't spend the token budget.
type Converter struct {
	conv *converter.Converter

	// KeepLinks leaves link targets in place.
	KeepLinks bool
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", webqa.Errorf(webqa.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", webqa.Errorf(webqa.EINVALID, "convert to markdown: %v", err)
	}

	if !c.KeepLinks {
		result = linkPattern.ReplaceAllString(result, "$1")
	}
	return result, nil
}
