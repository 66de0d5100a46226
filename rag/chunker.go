// Package rag implements retrieval-augmented answering over a crawled site:
// token-bounded chunking, corpus embedding, nearest-context assembly under a
// token budget, and the answer call that consumes it.
package rag

import (
	"context"
	"strings"

	"github.com/fwojciec/webqa"
)

// SentenceSeparator is the literal delimiter the chunker splits on.
// It is a heuristic: abbreviations and decimals split too, and the last
// fragment of a text keeps whatever punctuation it had.
const SentenceSeparator = ". "

// DefaultSentenceOverhead is the token allowance added per kept sentence
// for the separator re-inserted when sentences are joined.
const DefaultSentenceOverhead = 1

// DefaultMaxChunkTokens is the default token budget of a chunk.
const DefaultMaxChunkTokens = 500

// Chunker splits documents into chunks that fit a token budget.
type Chunker struct {
	Tokens           webqa.TokenCounter
	SentenceOverhead int
}

// NewChunker returns a Chunker using DefaultSentenceOverhead.
func NewChunker(tokens webqa.TokenCounter) *Chunker {
	return &Chunker{Tokens: tokens, SentenceOverhead: DefaultSentenceOverhead}
}

// Split breaks text into chunks of whole sentences whose token count stays
// within maxTokens. A text that fits maxTokens as a whole is kept as a single
// chunk. Every emitted chunk ends with an appended ".", even when its last
// sentence already had one. A sentence that alone exceeds maxTokens is
// dropped. Empty text yields no chunks.
func (c *Chunker) Split(ctx context.Context, text string, maxTokens int) ([]webqa.Chunk, error) {
	if maxTokens <= 0 {
		return nil, webqa.Errorf(webqa.EINVALID, "max tokens must be positive, got %d", maxTokens)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	total, err := c.count(ctx, text)
	if err != nil {
		return nil, err
	}
	if total <= maxTokens {
		chunk, err := c.join(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		return []webqa.Chunk{chunk}, nil
	}

	var (
		chunks      []webqa.Chunk
		pending     []string
		tokensSoFar int
	)
	for _, sentence := range strings.Split(text, SentenceSeparator) {
		// Counted with a leading space, as the sentence appears mid-chunk.
		n, err := c.count(ctx, " "+sentence)
		if err != nil {
			return nil, err
		}

		if tokensSoFar+n > maxTokens && len(pending) > 0 {
			chunk, err := c.join(ctx, pending)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
			pending = nil
			tokensSoFar = 0
		}

		if n > maxTokens {
			continue
		}

		pending = append(pending, sentence)
		tokensSoFar += n + c.SentenceOverhead
	}

	if len(pending) > 0 {
		chunk, err := c.join(ctx, pending)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// join builds a chunk from sentences and recounts its tokens.
func (c *Chunker) join(ctx context.Context, sentences []string) (webqa.Chunk, error) {
	text := strings.Join(sentences, SentenceSeparator) + "."
	n, err := c.count(ctx, text)
	if err != nil {
		return webqa.Chunk{}, err
	}
	return webqa.Chunk{Text: text, TokenCount: n}, nil
}

func (c *Chunker) count(ctx context.Context, text string) (int, error) {
	n, err := c.Tokens.CountTokens(ctx, text)
	if err != nil {
		if webqa.ErrorCode(err) == webqa.ETOKENIZE {
			return 0, err
		}
		return 0, webqa.Errorf(webqa.ETOKENIZE, "count tokens: %v", err)
	}
	return n, nil
}
