package csv

import (
	"context"
	"encoding/csv"
	"strconv"

	"github.com/fwojciec/webqa"
)

var _ webqa.CorpusStore = (*CorpusStore)(nil)

// CorpusStore implements webqa.CorpusStore over a single CSV file with the
// columns (index, text, n_tokens, embeddings). Embeddings use the literal
// list encoding of webqa.FormatVector.
type CorpusStore struct {
	path string
}

// NewCorpusStore returns a CorpusStore backed by the file at path.
func NewCorpusStore(path string) *CorpusStore {
	return &CorpusStore{path: path}
}

// SaveCorpus replaces the file with corpus.
func (s *CorpusStore) SaveCorpus(_ context.Context, corpus webqa.Corpus) error {
	return writeFile(s.path, []string{"", "text", "n_tokens", "embeddings"}, func(w *csv.Writer) error {
		for i, c := range corpus {
			record := []string{
				strconv.Itoa(i),
				c.Text,
				strconv.Itoa(c.TokenCount),
				webqa.FormatVector(c.Embedding),
			}
			if err := w.Write(record); err != nil {
				return webqa.Errorf(webqa.ECORPUSIO, "write chunk %d: %v", i, err)
			}
		}
		return nil
	})
}

// LoadCorpus reads the file in row order. A missing file is ENOTFOUND;
// a row with a malformed count or vector is ECORPUSIO.
func (s *CorpusStore) LoadCorpus(_ context.Context) (webqa.Corpus, error) {
	corpus := make(webqa.Corpus, 0)
	err := readFile(s.path, 4, func(_ int, record []string) error {
		if err := parseIndex(record[0]); err != nil {
			return err
		}
		n, err := strconv.Atoi(record[2])
		if err != nil {
			return webqa.Errorf(webqa.ECORPUSIO, "n_tokens %q is not an integer", record[2])
		}
		vec, err := webqa.ParseVector(record[3])
		if err != nil {
			return err
		}
		corpus = append(corpus, webqa.EmbeddedChunk{Text: record[1], TokenCount: n, Embedding: vec})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return corpus, nil
}
