package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_SaveDocuments(t *testing.T) {
	t.Parallel()

	t.Run("round-trips documents in order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewDocumentStore(db)
		ctx := context.Background()

		fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		docs := []*webqa.Document{
			{ID: "a", Title: "home", SourceURL: "https://example.com/", Text: "home. Welcome", FetchedAt: fetched},
			{ID: "b", Title: "faq", SourceURL: "https://example.com/faq", Text: "faq. Questions", FetchedAt: fetched},
		}

		require.NoError(t, store.SaveDocuments(ctx, docs))

		got, err := store.LoadDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, 0, got[0].Position)
		assert.Equal(t, "faq. Questions", got[1].Text)
		assert.Equal(t, 1, got[1].Position)
		assert.Equal(t, "https://example.com/faq", got[1].SourceURL)
		assert.True(t, fetched.Equal(got[1].FetchedAt))
	})

	t.Run("fills in missing ID, hash and fetch time", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewDocumentStore(db)
		doc := webqa.NewDocument("about.txt", "We cook.")

		require.NoError(t, store.SaveDocuments(context.Background(), []*webqa.Document{doc}))

		assert.NotEmpty(t, doc.ContentHash, "ContentHash should be generated")
		assert.False(t, doc.FetchedAt.IsZero(), "FetchedAt should be set")
		assert.Equal(t, "about.txt", doc.ID)
	})

	t.Run("replaces previous contents", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewDocumentStore(db)
		ctx := context.Background()

		require.NoError(t, store.SaveDocuments(ctx, []*webqa.Document{
			{Text: "one"}, {Text: "two"}, {Text: "three"},
		}))
		require.NoError(t, store.SaveDocuments(ctx, []*webqa.Document{{Text: "fresh"}}))

		got, err := store.LoadDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "fresh", got[0].Text)
	})

	t.Run("rejects invalid document without touching stored rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewDocumentStore(db)
		ctx := context.Background()
		require.NoError(t, store.SaveDocuments(ctx, []*webqa.Document{{Text: "kept"}}))

		err := store.SaveDocuments(ctx, []*webqa.Document{{Text: "ok"}, {}})

		require.Error(t, err)
		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
		assert.Contains(t, webqa.ErrorMessage(err), "document 1")

		got, err := store.LoadDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kept", got[0].Text)
	})
}

func TestDocumentStore_LoadDocuments(t *testing.T) {
	t.Parallel()

	t.Run("empty table returns empty slice", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewDocumentStore(db)

		got, err := store.LoadDocuments(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
