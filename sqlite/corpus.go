package sqlite

import (
	"context"
	"fmt"

	"github.com/fwojciec/webqa"
)

// Compile-time interface verification.
var _ webqa.CorpusStore = (*CorpusStore)(nil)

// CorpusStore implements webqa.CorpusStore using SQLite. Embeddings are
// stored in the literal list encoding of webqa.FormatVector, so the table
// reads the same as the CSV export.
type CorpusStore struct {
	db *DB
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db}
}

// SaveCorpus replaces the stored corpus.
func (s *CorpusStore) SaveCorpus(ctx context.Context, corpus webqa.Corpus) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "begin: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "clear chunks: %v", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, text, n_tokens, embeddings)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "prepare: %v", err)
	}
	defer stmt.Close()

	for i, c := range corpus {
		if _, err := stmt.ExecContext(ctx, i, c.Text, c.TokenCount, webqa.FormatVector(c.Embedding)); err != nil {
			return webqa.Errorf(webqa.ECORPUSIO, "insert chunk %d: %v", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "commit: %v", err)
	}
	return nil
}

// LoadCorpus returns the stored corpus in position order.
func (s *CorpusStore) LoadCorpus(ctx context.Context) (webqa.Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, text, n_tokens, embeddings
		FROM chunks
		ORDER BY position
	`)
	if err != nil {
		return nil, webqa.Errorf(webqa.ECORPUSIO, "query chunks: %v", err)
	}
	defer rows.Close()

	corpus := make(webqa.Corpus, 0)
	for rows.Next() {
		var (
			position   int
			chunk      webqa.EmbeddedChunk
			embeddings string
		)
		if err := rows.Scan(&position, &chunk.Text, &chunk.TokenCount, &embeddings); err != nil {
			return nil, webqa.Errorf(webqa.ECORPUSIO, "scan chunk: %v", err)
		}

		chunk.Embedding, err = webqa.ParseVector(embeddings)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", position, err)
		}

		corpus = append(corpus, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, webqa.Errorf(webqa.ECORPUSIO, "read chunks: %v", err)
	}

	return corpus, nil
}
