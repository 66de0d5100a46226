package webqa_test

import (
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/stretchr/testify/assert"
)

func TestFormatContext(t *testing.T) {
	t.Parallel()

	t.Run("returns empty string for no texts", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, webqa.FormatContext(nil))
	})

	t.Run("single text is returned unchanged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "only one.", webqa.FormatContext([]string{"only one."}))
	})

	t.Run("joins texts with separator", func(t *testing.T) {
		t.Parallel()

		got := webqa.FormatContext([]string{"first.", "second."})

		assert.Equal(t, "first.\n\n###\n\nsecond.", got)
	})
}
