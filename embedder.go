package webqa

import "context"

// Embedder computes fixed-dimension embedding vectors for text.
type Embedder interface {
	// Embed returns the embedding of text. Every call against the same
	// model returns vectors of the same dimensionality.
	Embed(ctx context.Context, text string) ([]float32, error)
}
