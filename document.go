package webqa

import (
	"context"
	"strings"
	"time"
)

// Document represents the cleaned text of one crawled page.
// Documents are immutable once handed to the chunker.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"sourceUrl"`
	Text        string    `json:"text"`
	ContentHash string    `json:"contentHash"`
	Position    int       `json:"position"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Text == "" {
		return Errorf(EINVALID, "document text required")
	}
	return nil
}

// NewDocument builds a document from a filename-like identifier and the raw
// page text stored under it. The title is derived from the name and
// prefixed to the whitespace-normalized text as the document's first sentence.
func NewDocument(name, raw string) *Document {
	title := TitleFromName(name)
	return &Document{
		ID:    name,
		Title: title,
		Text:  title + ". " + NormalizeWhitespace(raw),
	}
}

// TitleFromName derives a display title from a filename-like identifier:
// the .txt extension is dropped, dashes and underscores become spaces, and
// "#update" markers are removed.
func TitleFromName(name string) string {
	name = strings.TrimSuffix(name, ".txt")
	r := strings.NewReplacer("-", " ", "_", " ", "#update", "")
	return r.Replace(name)
}

// NormalizeWhitespace collapses newlines, literal "\n" escape sequences, and
// runs of whitespace into single spaces and trims both ends.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, `\n`, " ")
	return strings.Join(strings.Fields(s), " ")
}

// DocumentStore persists the flat (index, title, text) table of documents.
// SaveDocuments replaces everything previously stored.
type DocumentStore interface {
	SaveDocuments(ctx context.Context, docs []*Document) error
	LoadDocuments(ctx context.Context) ([]*Document, error)
}
