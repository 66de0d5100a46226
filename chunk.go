package webqa

import "context"

// Chunk is a bounded span of document text together with its token count.
type Chunk struct {
	Text       string `json:"text"`
	TokenCount int    `json:"tokenCount"`
}

// EmbeddedChunk is a Chunk with the embedding computed for its text.
type EmbeddedChunk struct {
	Text       string    `json:"text"`
	TokenCount int       `json:"tokenCount"`
	Embedding  []float32 `json:"embedding"`
}

// Corpus is the ordered set of embedded chunks built from one crawl.
// Order is significant: it breaks ties between equally distant chunks.
// Duplicate texts are permitted.
type Corpus []EmbeddedChunk

// Len returns the number of chunks in the corpus.
func (c Corpus) Len() int { return len(c) }

// Dimension returns the embedding dimensionality, or 0 for an empty corpus.
func (c Corpus) Dimension() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0].Embedding)
}

// Validate returns an error if any chunk has an empty embedding or one whose
// dimensionality differs from the first chunk.
func (c Corpus) Validate() error {
	dim := c.Dimension()
	for i, ch := range c {
		if len(ch.Embedding) == 0 {
			return Errorf(ECORPUSIO, "chunk %d has no embedding", i)
		}
		if len(ch.Embedding) != dim {
			return Errorf(ECORPUSIO, "chunk %d has dimension %d, want %d", i, len(ch.Embedding), dim)
		}
	}
	return nil
}

// CorpusStore persists a corpus as a flat (index, text, n_tokens, embeddings)
// table. SaveCorpus replaces everything previously stored; LoadCorpus must
// return vectors bit-identical to the saved ones.
type CorpusStore interface {
	SaveCorpus(ctx context.Context, corpus Corpus) error
	LoadCorpus(ctx context.Context) (Corpus, error)
}
