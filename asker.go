package webqa

import "context"

// Asker provides natural language question answering over a crawled site.
type Asker interface {
	// Ask answers a question using the site's text as context.
	// An empty answer means no answer was produced; a model saying it
	// does not know is a non-empty answer.
	Ask(ctx context.Context, question string) (string, error)
}
