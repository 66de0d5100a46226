package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/gemini"
	"github.com/fwojciec/webqa/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenizer_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenizer("not-a-gemini-model")

	require.Error(t, err)
	assert.Equal(t, webqa.ETOKENIZE, webqa.ErrorCode(err))
}

func TestTokenizer(t *testing.T) {
	t.Parallel()

	tok, err := gemini.NewTokenizer("gemini-2.0-flash")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("count matches encoded ids", func(t *testing.T) {
		t.Parallel()

		text := "Meal kits ship every Monday from our Lisbon kitchen."
		ids, err := tok.Encode(ctx, text)
		require.NoError(t, err)
		count, err := tok.CountTokens(ctx, text)
		require.NoError(t, err)

		assert.NotEmpty(t, ids)
		assert.Len(t, ids, count)
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		t.Parallel()

		first, err := tok.Encode(ctx, "How do I pause my subscription?")
		require.NoError(t, err)
		second, err := tok.Encode(ctx, "How do I pause my subscription?")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty text has no tokens", func(t *testing.T) {
		t.Parallel()

		ids, err := tok.Encode(ctx, "")
		require.NoError(t, err)
		count, err := tok.CountTokens(ctx, "")
		require.NoError(t, err)

		assert.Empty(t, ids)
		assert.Equal(t, 0, count)
	})

	t.Run("drives the chunker", func(t *testing.T) {
		t.Parallel()

		text := "Boxes ship on Monday. Deliveries arrive by Wednesday. Skip a week from your account page"
		chunks, err := rag.NewChunker(tok).Split(ctx, text, 500)

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, text+".", chunks[0].Text)
		want, err := tok.CountTokens(ctx, text+".")
		require.NoError(t, err)
		assert.Equal(t, want, chunks[0].TokenCount)
	})
}
