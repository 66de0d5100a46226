package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var (
	_ webqa.DocumentStore = (*DocumentStore)(nil)
	_ webqa.CorpusStore   = (*CorpusStore)(nil)
)

// DocumentStore is a mock implementation of webqa.DocumentStore.
type DocumentStore struct {
	SaveDocumentsFn func(ctx context.Context, docs []*webqa.Document) error
	LoadDocumentsFn func(ctx context.Context) ([]*webqa.Document, error)
}

func (s *DocumentStore) SaveDocuments(ctx context.Context, docs []*webqa.Document) error {
	return s.SaveDocumentsFn(ctx, docs)
}

func (s *DocumentStore) LoadDocuments(ctx context.Context) ([]*webqa.Document, error) {
	return s.LoadDocumentsFn(ctx)
}

// CorpusStore is a mock implementation of webqa.CorpusStore.
type CorpusStore struct {
	SaveCorpusFn func(ctx context.Context, corpus webqa.Corpus) error
	LoadCorpusFn func(ctx context.Context) (webqa.Corpus, error)
}

func (s *CorpusStore) SaveCorpus(ctx context.Context, corpus webqa.Corpus) error {
	return s.SaveCorpusFn(ctx, corpus)
}

func (s *CorpusStore) LoadCorpus(ctx context.Context) (webqa.Corpus, error) {
	return s.LoadCorpusFn(ctx)
}
