package webqa

import "strings"

// ContextSeparator separates chunk texts inside an assembled context.
const ContextSeparator = "\n\n###\n\n"

// FormatContext joins selected chunk texts into the context handed to the
// completion model. An empty selection yields an empty string.
func FormatContext(texts []string) string {
	return strings.Join(texts, ContextSeparator)
}
