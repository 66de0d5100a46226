package retry

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.Embedder = (*Embedder)(nil)

// Embedder retries a wrapped Embedder. Each chunk is still embedded by
// exactly one successful call; failed attempts return no vector.
type Embedder struct {
	next    webqa.Embedder
	retrier *Retrier
}

// NewEmbedder wraps next with r.
func NewEmbedder(next webqa.Embedder, r *Retrier) *Embedder {
	return &Embedder{next: next, retrier: r}
}

// Embed delegates to the wrapped embedder, retrying EEMBED failures.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := e.retrier.Do(ctx, "embed", func(ctx context.Context) error {
		var err error
		vec, err = e.next.Embed(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}
