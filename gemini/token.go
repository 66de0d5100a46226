package gemini

import (
	"context"
	"sync"

	"github.com/fwojciec/webqa"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ webqa.Tokenizer = (*Tokenizer)(nil)

// Tokenizer implements webqa.Tokenizer with the SentencePiece vocabulary of
// a Gemini model, computed locally without calling the API.
type Tokenizer struct {
	mu  sync.Mutex
	tok *tokenizer.LocalTokenizer
}

// NewTokenizer loads the vocabulary for model. The model file is downloaded
// and cached by the genai SDK on first use.
func NewTokenizer(model string) (*Tokenizer, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, webqa.Errorf(webqa.ETOKENIZE, "load tokenizer for %q: %v", model, err)
	}
	return &Tokenizer{tok: tok}, nil
}

// Encode returns the token ids of text as a single user turn.
func (t *Tokenizer) Encode(_ context.Context, text string) ([]int, error) {
	if text == "" {
		return nil, nil
	}

	t.mu.Lock()
	result, err := t.tok.ComputeTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)})
	t.mu.Unlock()
	if err != nil {
		return nil, webqa.Errorf(webqa.ETOKENIZE, "compute tokens: %v", err)
	}

	var ids []int
	for _, info := range result.TokensInfo {
		for _, id := range info.TokenIDs {
			ids = append(ids, int(id))
		}
	}
	return ids, nil
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(ctx context.Context, text string) (int, error) {
	ids, err := t.Encode(ctx, text)
	return len(ids), err
}
