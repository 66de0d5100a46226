package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var (
	_ webqa.TokenCounter = (*TokenCounter)(nil)
	_ webqa.Tokenizer    = (*Tokenizer)(nil)
)

// TokenCounter is a mock implementation of webqa.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

// Tokenizer is a mock implementation of webqa.Tokenizer.
type Tokenizer struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
	EncodeFn      func(ctx context.Context, text string) ([]int, error)
}

func (t *Tokenizer) CountTokens(ctx context.Context, text string) (int, error) {
	return t.CountTokensFn(ctx, text)
}

func (t *Tokenizer) Encode(ctx context.Context, text string) ([]int, error) {
	return t.EncodeFn(ctx, text)
}
