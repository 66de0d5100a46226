package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webqa.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements webqa.DocumentStore using SQLite.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// SaveDocuments replaces the stored documents with docs. Each document's
// Position is set to its index; missing IDs, hashes and fetch times are
// filled in.
func (s *DocumentStore) SaveDocuments(ctx context.Context, docs []*webqa.Document) error {
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return webqa.Errorf(webqa.EINVALID, "document %d: %s", i, webqa.ErrorMessage(err))
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (position, id, title, source_url, text, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, doc := range docs {
		doc.Position = i
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		if doc.ContentHash == "" {
			doc.ContentHash = hashContent(doc.Text)
		}
		if doc.FetchedAt.IsZero() {
			doc.FetchedAt = now
		}

		if _, err := stmt.ExecContext(ctx, doc.Position, doc.ID, doc.Title, doc.SourceURL,
			doc.Text, doc.ContentHash, doc.FetchedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert document %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadDocuments returns the stored documents in position order.
func (s *DocumentStore) LoadDocuments(ctx context.Context) ([]*webqa.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, id, title, source_url, text, content_hash, fetched_at
		FROM documents
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]*webqa.Document, 0)
	for rows.Next() {
		var doc webqa.Document
		var fetchedAt string

		if err := rows.Scan(&doc.Position, &doc.ID, &doc.Title, &doc.SourceURL,
			&doc.Text, &doc.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		doc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}
