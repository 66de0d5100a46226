package rag

import (
	"context"

	"github.com/fwojciec/webqa"
)

// BuildCorpus embeds every chunk, in order, with one Embed call per chunk.
// The first failure aborts the build; no partial corpus is returned.
func BuildCorpus(ctx context.Context, embedder webqa.Embedder, chunks []webqa.Chunk) (webqa.Corpus, error) {
	corpus := make(webqa.Corpus, 0, len(chunks))
	dim := 0
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, webqa.Errorf(webqa.EEMBED, "embed chunk %d: %v", i, err)
		}
		if len(vec) == 0 {
			return nil, webqa.Errorf(webqa.EEMBED, "embed chunk %d: empty vector", i)
		}
		if i == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return nil, webqa.Errorf(webqa.EEMBED, "embed chunk %d: dimension %d, want %d", i, len(vec), dim)
		}

		corpus = append(corpus, webqa.EmbeddedChunk{
			Text:       chunk.Text,
			TokenCount: chunk.TokenCount,
			Embedding:  vec,
		})
	}
	return corpus, nil
}
