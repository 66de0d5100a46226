package webqa

import "context"

// Page represents a fetched page reduced to cleaned text.
type Page struct {
	URL     string
	Title   string
	Content string
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit replaces whatever a previous
// run stored with the saved pages; Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
