package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var (
	_ webqa.Embedder  = (*Embedder)(nil)
	_ webqa.Completer = (*Completer)(nil)
	_ webqa.Asker     = (*Asker)(nil)
)

// Embedder is a mock implementation of webqa.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

// Completer is a mock implementation of webqa.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, req *webqa.CompletionRequest) (*webqa.Completion, error)
}

func (c *Completer) Complete(ctx context.Context, req *webqa.CompletionRequest) (*webqa.Completion, error) {
	return c.CompleteFn(ctx, req)
}

// Asker is a mock implementation of webqa.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}
