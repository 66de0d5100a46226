package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/goquery"
	"github.com/fwojciec/webqa/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Pricing - Fresh Boxes</title>
<meta property="og:title" content="Pricing">
</head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/menu">Menu</a></li>
</ul>
</nav>
<main>
<h1>Pricing</h1>
<p>A box for two people costs forty euros per week and includes three recipes with every ingredient measured out.</p>
<p>Larger households can add a fourth recipe or double portions at checkout, and you can skip any week before Thursday.</p>
</main>
<footer><p>Copyright 2026 Fresh Boxes GmbH</p></footer>
</body>
</html>`

		ext := trafilatura.NewExtractor(nil)
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "forty euros per week")
		assert.NotContains(t, result.ContentHTML, "main-nav")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor(nil).Extract("")

		require.Error(t, err)
		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})

	t.Run("falls back when no content is found", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Empty</title></head><body></body></html>`

		ext := trafilatura.NewExtractor(goquery.NewTextExtractor())
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Empty", result.Title)
	})
}
