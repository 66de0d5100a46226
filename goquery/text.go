package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webqa"
	"golang.org/x/net/html"
)

// nonContent lists elements whose text never reaches a reader.
const nonContent = "script, style, noscript, template, svg"

var (
	_ webqa.Extractor = (*TextExtractor)(nil)
	_ webqa.Converter = (*TextConverter)(nil)
)

// TextExtractor keeps the whole page: the title comes from <title> and the
// content is the <body> markup.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract returns the page title and body HTML.
func (e *TextExtractor) Extract(html string) (*webqa.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webqa.Errorf(webqa.EINVALID, "failed to parse HTML: %v", err)
	}

	body, err := doc.Find("body").First().Html()
	if err != nil {
		return nil, webqa.Errorf(webqa.EINVALID, "failed to render body: %v", err)
	}

	return &webqa.ExtractResult{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		ContentHTML: body,
	}, nil
}

// TextConverter turns HTML into its visible text with whitespace collapsed.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert returns the text of content, skipping scripts and styles.
// Boundaries of non-inline elements become single spaces.
func (c *TextConverter) Convert(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", webqa.Errorf(webqa.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(nonContent).Remove()

	var sb strings.Builder
	for _, n := range doc.Nodes {
		writeText(&sb, n)
	}
	return webqa.NormalizeWhitespace(sb.String()), nil
}

// inline elements do not separate the words around them.
var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true,
	"em": true, "i": true, "kbd": true, "mark": true, "q": true,
	"s": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "time": true, "u": true,
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if !inline[n.Data] {
			sb.WriteByte(' ')
			defer sb.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}
