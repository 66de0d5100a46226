package rag

import (
	"cmp"
	"context"
	"slices"

	"github.com/fwojciec/webqa"
)

// DefaultChunkOverhead is the token allowance added per selected chunk for
// the framing around it in the prompt.
const DefaultChunkOverhead = 4

// DefaultMaxContextTokens is the default token budget of an assembled context.
const DefaultMaxContextTokens = 1800

// Ranked is a corpus position paired with its distance to a query.
type Ranked struct {
	Index    int
	Distance float64
}

// Rank orders the whole corpus by ascending cosine distance to query.
// Chunks at equal distance keep their corpus order.
func Rank(query []float32, corpus webqa.Corpus) ([]Ranked, error) {
	ranked := make([]Ranked, len(corpus))
	for i := range corpus {
		d, err := CosineDistance(query, corpus[i].Embedding)
		if err != nil {
			return nil, webqa.Errorf(webqa.EEMBED, "chunk %d: %s", i, webqa.ErrorMessage(err))
		}
		ranked[i] = Ranked{Index: i, Distance: d}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return ranked, nil
}

// Assembler selects the chunks nearest to a question under a token budget.
type Assembler struct {
	Embedder      webqa.Embedder
	ChunkOverhead int
}

// NewAssembler returns an Assembler using DefaultChunkOverhead.
func NewAssembler(embedder webqa.Embedder) *Assembler {
	return &Assembler{Embedder: embedder, ChunkOverhead: DefaultChunkOverhead}
}

// Assemble embeds question and returns the texts of the nearest chunks,
// joined by webqa.ContextSeparator. Chunks are taken in rank order while
// the running total of TokenCount+ChunkOverhead stays within maxLen; the
// first chunk that overflows ends the scan, so no later chunk is taken even
// if it would fit. The result is empty when the nearest chunk overflows.
func (a *Assembler) Assemble(ctx context.Context, question string, corpus webqa.Corpus, maxLen int) (string, error) {
	query, err := a.Embedder.Embed(ctx, question)
	if err != nil {
		return "", webqa.Errorf(webqa.EEMBED, "embed question: %v", err)
	}

	ranked, err := Rank(query, corpus)
	if err != nil {
		return "", err
	}

	return webqa.FormatContext(a.Select(ranked, corpus, maxLen)), nil
}

// Select returns the texts of the longest prefix of ranked that fits maxLen.
func (a *Assembler) Select(ranked []Ranked, corpus webqa.Corpus, maxLen int) []string {
	var texts []string
	curLen := 0
	for _, r := range ranked {
		chunk := corpus[r.Index]
		curLen += chunk.TokenCount + a.ChunkOverhead
		if curLen > maxLen {
			break
		}
		texts = append(texts, chunk.Text)
	}
	return texts
}
