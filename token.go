package webqa

import "context"

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Tokenizer is a TokenCounter that also exposes the token ids of a text.
// Implementations are deterministic for a given encoding.
type Tokenizer interface {
	TokenCounter
	Encode(ctx context.Context, text string) ([]int, error)
}
