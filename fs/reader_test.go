package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocuments(t *testing.T) {
	t.Parallel()

	t.Run("reads text files in name order with derived titles", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "example.com_b.txt"), []byte("Second\npage"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "example.com_a-b.txt"), []byte("First  page"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

		docs, err := fs.ReadDocuments(dir)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "example.com a b", docs[0].Title)
		assert.Equal(t, "example.com a b. First page", docs[0].Text)
		assert.Equal(t, 0, docs[0].Position)
		assert.Equal(t, "example.com b. Second page", docs[1].Text)
		assert.Equal(t, 1, docs[1].Position)
	})

	t.Run("missing directory is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadDocuments(filepath.Join(t.TempDir(), "missing"))

		require.Error(t, err)
		assert.Equal(t, webqa.ENOTFOUND, webqa.ErrorCode(err))
	})
}

func TestReadDocuments_TitleFromCrawledURL(t *testing.T) {
	t.Parallel()

	// Titles drop the URL scheme and the .txt suffix, so the first sentence
	// of every document is the host and path in words.
	dir := t.TempDir()
	store := fs.NewFileStore(dir, "text")
	require.NoError(t, store.Save(context.Background(), &webqa.Page{
		URL:     "https://paradiser.example/meal-kits/classic_box",
		Content: "Four dishes per week.",
	}))
	require.NoError(t, store.Commit())

	docs, err := fs.ReadDocuments(filepath.Join(dir, "text"))

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "paradiser.example_meal-kits_classic_box.txt", docs[0].ID)
	assert.Equal(t, "paradiser.example meal kits classic box", docs[0].Title)
	assert.Equal(t, "paradiser.example meal kits classic box. Four dishes per week.", docs[0].Text)
	assert.NotContains(t, docs[0].Text, "https")
	assert.NotContains(t, docs[0].Text, ".txt")
}
