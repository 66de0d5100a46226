package webqa_test

import (
	"math"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVector(t *testing.T) {
	t.Parallel()

	t.Run("writes bracketed list", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "[0.25, -1.5, 0]", webqa.FormatVector([]float32{0.25, -1.5, 0}))
	})

	t.Run("empty vector", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "[]", webqa.FormatVector(nil))
	})
}

func TestParseVector(t *testing.T) {
	t.Parallel()

	t.Run("round trips bit-identical values", func(t *testing.T) {
		t.Parallel()

		in := []float32{
			0.1, -0.2, 1.0 / 3.0, 1e-7, -3.4028235e38,
			math.SmallestNonzeroFloat32, 0.0023064255, -0.028320312,
		}

		out, err := webqa.ParseVector(webqa.FormatVector(in))

		require.NoError(t, err)
		require.Len(t, out, len(in))
		for i := range in {
			assert.Equal(t, math.Float32bits(in[i]), math.Float32bits(out[i]), "element %d", i)
		}
	})

	t.Run("accepts python list literals", func(t *testing.T) {
		t.Parallel()

		out, err := webqa.ParseVector("[-0.0123, 1e-05,0.5 ]")

		require.NoError(t, err)
		assert.Equal(t, []float32{-0.0123, 1e-05, 0.5}, out)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		out, err := webqa.ParseVector("[]")

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("rejects unbracketed input", func(t *testing.T) {
		t.Parallel()

		_, err := webqa.ParseVector("0.1, 0.2")

		require.Error(t, err)
		assert.Equal(t, webqa.ECORPUSIO, webqa.ErrorCode(err))
	})

	t.Run("rejects non-numeric element", func(t *testing.T) {
		t.Parallel()

		_, err := webqa.ParseVector("[0.1, abc]")

		require.Error(t, err)
		assert.Equal(t, webqa.ECORPUSIO, webqa.ErrorCode(err))
		assert.Contains(t, webqa.ErrorMessage(err), "element 1")
	})
}
