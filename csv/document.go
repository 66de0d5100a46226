package csv

import (
	"context"
	"encoding/csv"
	"strconv"

	"github.com/fwojciec/webqa"
)

var _ webqa.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements webqa.DocumentStore over a single CSV file with
// the columns (index, fname, text). Only titles and texts are kept.
type DocumentStore struct {
	path string
}

// NewDocumentStore returns a DocumentStore backed by the file at path.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// SaveDocuments replaces the file with docs.
func (s *DocumentStore) SaveDocuments(_ context.Context, docs []*webqa.Document) error {
	return writeFile(s.path, []string{"", "fname", "text"}, func(w *csv.Writer) error {
		for i, doc := range docs {
			if err := w.Write([]string{strconv.Itoa(i), doc.Title, doc.Text}); err != nil {
				return webqa.Errorf(webqa.ECORPUSIO, "write document %d: %v", i, err)
			}
		}
		return nil
	})
}

// LoadDocuments reads the file in row order. A missing file is ENOTFOUND.
func (s *DocumentStore) LoadDocuments(_ context.Context) ([]*webqa.Document, error) {
	docs := make([]*webqa.Document, 0)
	err := readFile(s.path, 3, func(row int, record []string) error {
		if err := parseIndex(record[0]); err != nil {
			return err
		}
		docs = append(docs, &webqa.Document{
			ID:       record[0],
			Title:    record[1],
			Text:     record[2],
			Position: row,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
