package webqa

// Converter turns content HTML into the text that gets chunked.
type Converter interface {
	// Convert transforms HTML content into text.
	Convert(html string) (string, error)
}
