package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/webqa"
	webqahttp "github.com/fwojciec/webqa/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve answers every request with status, content type and body.
func serve(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns page HTML", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "text/html; charset=utf-8", "<p>Meal kits delivered weekly.</p>")
		fetcher := webqahttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>Meal kits delivered weekly.</p>", html)
	})

	t.Run("decodes a declared legacy charset to UTF-8", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "text/html; charset=windows-1252", "<p>Caf\xe9 cr\xe8me</p>")
		fetcher := webqahttp.NewFetcher()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>Café crème</p>", html)
	})

	t.Run("decodes a charset declared in a meta tag", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "text/html", `<meta charset="iso-8859-1"><p>Men\xfc</p>`)
		fetcher := webqahttp.NewFetcher()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "<p>Menü</p>")
	})

	t.Run("keeps undeclared UTF-8 intact", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "", "<p>Crème brûlée</p>")
		fetcher := webqahttp.NewFetcher()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>Crème brûlée</p>", html)
	})

	t.Run("codes status errors for retry decisions", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			want   string
		}{
			{http.StatusNotFound, webqa.ENOTFOUND},
			{http.StatusGone, webqa.ENOTFOUND},
			{http.StatusForbidden, webqa.EINVALID},
			{http.StatusTooManyRequests, webqa.EINTERNAL},
			{http.StatusRequestTimeout, webqa.EINTERNAL},
			{http.StatusServiceUnavailable, webqa.EINTERNAL},
		}
		for _, tt := range tests {
			srv := serve(t, tt.status, "text/html", "")
			_, err := webqahttp.NewFetcher().Fetch(context.Background(), srv.URL)

			require.Error(t, err)
			assert.Equal(t, tt.want, webqa.ErrorCode(err), "status %d", tt.status)
			assert.Contains(t, webqa.ErrorMessage(err), fmt.Sprintf("HTTP %d", tt.status))
		}
	})

	t.Run("rejects non-HTML content", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "application/pdf", "%PDF-1.7")

		_, err := webqahttp.NewFetcher().Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})

	t.Run("rejects pages over the size limit", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "text/html", "<p>"+strings.Repeat("x", 64)+"</p>")
		fetcher := webqahttp.NewFetcher(webqahttp.WithMaxPageBytes(32))

		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
		assert.Contains(t, webqa.ErrorMessage(err), "exceeds 32 bytes")
	})

	t.Run("times out slow pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := webqahttp.NewFetcher(webqahttp.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), srv.URL)

		require.Error(t, err)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, http.StatusOK, "text/html", "<p>ok</p>")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := webqahttp.NewFetcher().Fetch(ctx, srv.URL)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		got := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got <- r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
		}))
		defer srv.Close()

		_, err := webqahttp.NewFetcher(webqahttp.WithUserAgent("webqa-test/1.0")).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "webqa-test/1.0", <-got)
	})

	t.Run("rejects malformed URLs as invalid", func(t *testing.T) {
		t.Parallel()

		_, err := webqahttp.NewFetcher().Fetch(context.Background(), "http://[::1")

		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})
}
