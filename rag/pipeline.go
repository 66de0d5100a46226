package rag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/webqa"
)

// ChunkErrorPolicy decides what Build does when a document fails to chunk.
type ChunkErrorPolicy int

const (
	// ChunkAbort fails the build on the first document that cannot be chunked.
	ChunkAbort ChunkErrorPolicy = iota

	// ChunkSkip logs the failure and leaves the document out of the corpus.
	ChunkSkip
)

// ParseChunkErrorPolicy parses "abort" or "skip".
func ParseChunkErrorPolicy(s string) (ChunkErrorPolicy, error) {
	switch strings.ToLower(s) {
	case "", "abort":
		return ChunkAbort, nil
	case "skip":
		return ChunkSkip, nil
	}
	return ChunkAbort, webqa.Errorf(webqa.EINVALID, "unknown chunk error policy %q", s)
}

// Builder constructs a Pipeline, either by chunking and embedding documents
// or around a corpus loaded from storage.
type Builder struct {
	Tokenizer webqa.TokenCounter
	Embedder  webqa.Embedder
	Completer webqa.Completer

	MaxChunkTokens   int
	SentenceOverhead int
	ChunkOverhead    int
	OnChunkError     ChunkErrorPolicy

	// Instruction overrides DefaultInstruction.
	Instruction string

	// Greeting is passed to the Answerer.
	Greeting string

	// Options are the answer options used by Pipeline.Ask.
	Options AnswerOptions

	Logger *slog.Logger

	// DebugWriter receives the context of answers asked with Debug set.
	DebugWriter io.Writer
}

// NewBuilder returns a Builder with default budgets and overheads.
func NewBuilder(tokenizer webqa.TokenCounter, embedder webqa.Embedder, completer webqa.Completer) *Builder {
	return &Builder{
		Tokenizer:        tokenizer,
		Embedder:         embedder,
		Completer:        completer,
		MaxChunkTokens:   DefaultMaxChunkTokens,
		SentenceOverhead: DefaultSentenceOverhead,
		ChunkOverhead:    DefaultChunkOverhead,
		OnChunkError:     ChunkAbort,
		Options:          DefaultAnswerOptions(),
	}
}

// Chunk splits every document into chunks, in document order.
func (b *Builder) Chunk(ctx context.Context, docs []*webqa.Document) ([]webqa.Chunk, error) {
	logger := orDiscard(b.Logger)
	chunker := &Chunker{Tokens: b.Tokenizer, SentenceOverhead: b.SentenceOverhead}

	var chunks []webqa.Chunk
	for i, doc := range docs {
		cs, err := chunker.Split(ctx, doc.Text, b.MaxChunkTokens)
		if err != nil {
			if b.OnChunkError == ChunkSkip {
				logger.Warn("skip document", "index", i, "title", doc.Title, "err", err)
				continue
			}
			return nil, fmt.Errorf("chunk document %d (%s): %w", i, doc.Title, err)
		}
		chunks = append(chunks, cs...)
	}
	return chunks, nil
}

// Build chunks and embeds docs and returns a Pipeline over the new corpus.
func (b *Builder) Build(ctx context.Context, docs []*webqa.Document) (*Pipeline, error) {
	logger := orDiscard(b.Logger)

	chunks, err := b.Chunk(ctx, docs)
	if err != nil {
		return nil, err
	}
	logger.Info("chunked documents", "documents", len(docs), "chunks", len(chunks))

	corpus, err := BuildCorpus(ctx, b.Embedder, chunks)
	if err != nil {
		return nil, err
	}
	logger.Info("embedded chunks", "chunks", corpus.Len(), "dimension", corpus.Dimension())

	return b.Open(corpus)
}

// Open returns a Pipeline over an existing corpus.
func (b *Builder) Open(corpus webqa.Corpus) (*Pipeline, error) {
	if err := corpus.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		corpus: corpus,
		answerer: &Answerer{
			Assembler:   &Assembler{Embedder: b.Embedder, ChunkOverhead: b.ChunkOverhead},
			Completer:   b.Completer,
			Instruction: b.Instruction,
			Greeting:    b.Greeting,
			Logger:      b.Logger,
			DebugWriter: b.DebugWriter,
		},
		options: b.Options,
	}, nil
}

// Ensure Pipeline implements webqa.Asker at compile time.
var _ webqa.Asker = (*Pipeline)(nil)

// Pipeline answers questions over one corpus. The corpus is never modified;
// a new crawl builds a new Pipeline.
type Pipeline struct {
	corpus   webqa.Corpus
	answerer *Answerer
	options  AnswerOptions
}

// Corpus returns the pipeline's corpus.
func (p *Pipeline) Corpus() webqa.Corpus {
	return p.corpus
}

// Ask answers question with the builder's answer options.
// Provider failures are not errors; they produce an empty answer.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", webqa.Errorf(webqa.EINVALID, "question required")
	}
	return p.Answer(ctx, question, p.options), nil
}

// Answer answers question with explicit options.
func (p *Pipeline) Answer(ctx context.Context, question string, opts AnswerOptions) string {
	return p.answerer.Answer(ctx, question, p.corpus, opts)
}
