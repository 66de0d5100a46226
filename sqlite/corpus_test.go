package sqlite_test

import (
	"context"
	"math"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusStore(t *testing.T) {
	t.Parallel()

	t.Run("round-trips vectors bit for bit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewCorpusStore(db)
		ctx := context.Background()

		corpus := webqa.Corpus{
			{Text: "Boxes ship on Monday.", TokenCount: 6, Embedding: []float32{0.1, -0.2, 1e-7, math.MaxFloat32}},
			{Text: "Boxes ship on Monday.", TokenCount: 6, Embedding: []float32{math.SmallestNonzeroFloat32, 0, -1, 0.333333}},
		}

		require.NoError(t, store.SaveCorpus(ctx, corpus))

		got, err := store.LoadCorpus(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for i := range corpus {
			assert.Equal(t, corpus[i].Text, got[i].Text)
			assert.Equal(t, corpus[i].TokenCount, got[i].TokenCount)
			require.Len(t, got[i].Embedding, len(corpus[i].Embedding))
			for j := range corpus[i].Embedding {
				assert.Equal(t, math.Float32bits(corpus[i].Embedding[j]), math.Float32bits(got[i].Embedding[j]))
			}
		}
	})

	t.Run("stores embeddings as literal lists", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewCorpusStore(db)
		ctx := context.Background()

		require.NoError(t, store.SaveCorpus(ctx, webqa.Corpus{{Text: "a.", TokenCount: 1, Embedding: []float32{0.25, -1.5}}}))

		var raw string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT embeddings FROM chunks WHERE position = 0").Scan(&raw))
		assert.Equal(t, "[0.25, -1.5]", raw)
	})

	t.Run("save replaces previous corpus", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewCorpusStore(db)
		ctx := context.Background()

		require.NoError(t, store.SaveCorpus(ctx, webqa.Corpus{
			{Text: "old 1.", Embedding: []float32{1}},
			{Text: "old 2.", Embedding: []float32{1}},
		}))
		require.NoError(t, store.SaveCorpus(ctx, webqa.Corpus{{Text: "new.", Embedding: []float32{2}}}))

		got, err := store.LoadCorpus(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "new.", got[0].Text)
	})

	t.Run("empty corpus loads as empty", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewCorpusStore(db)

		got, err := store.LoadCorpus(context.Background())

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("malformed vector is a corpus error naming the row", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewCorpusStore(db)
		ctx := context.Background()
		_, err := db.ExecContext(ctx, `INSERT INTO chunks (position, text, n_tokens, embeddings) VALUES (3, 'x', 1, '[0.1, oops]')`)
		require.NoError(t, err)

		_, err = store.LoadCorpus(ctx)

		require.Error(t, err)
		assert.Equal(t, webqa.ECORPUSIO, webqa.ErrorCode(err))
		assert.Contains(t, err.Error(), "chunk 3")
	})
}
