// Package tiktoken counts tokens with OpenAI's BPE encodings.
package tiktoken

import (
	"context"

	"github.com/fwojciec/webqa"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the encoding used by the embedding and chat models the
// chunk budgets were tuned for.
const DefaultEncoding = "cl100k_base"

var _ webqa.Tokenizer = (*Tokenizer)(nil)

// Tokenizer implements webqa.Tokenizer over a tiktoken encoding.
// It is safe for concurrent use.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTokenizer loads the named encoding. The BPE ranks are fetched and
// cached by tiktoken-go on first use.
func NewTokenizer(encoding string) (*Tokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, webqa.Errorf(webqa.ETOKENIZE, "load encoding %q: %v", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Encode returns the token ids of text. Special tokens are treated as
// ordinary text.
func (t *Tokenizer) Encode(_ context.Context, text string) ([]int, error) {
	return t.enc.Encode(text, nil, nil), nil
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	ids, err := t.Encode(ctx, text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
