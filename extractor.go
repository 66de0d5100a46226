package webqa

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the content to convert to text.
	ContentHTML string
}

// Extractor selects the content of an HTML page worth indexing.
type Extractor interface {
	// Extract processes raw HTML and returns the title and content HTML.
	Extract(html string) (*ExtractResult, error)
}
