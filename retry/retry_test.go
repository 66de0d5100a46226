package retry_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/mock"
	"github.com/fwojciec/webqa/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instant retries three times without waiting.
var instant = []time.Duration{0, 0, 0}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"uncoded network error", errors.New("connection reset"), true},
		{"embedding provider failure", webqa.Errorf(webqa.EEMBED, "quota exceeded"), true},
		{"completion provider failure", webqa.Errorf(webqa.ECOMPLETE, "overloaded"), true},
		{"server error", webqa.Errorf(webqa.EINTERNAL, "HTTP 503"), true},
		{"wrapped provider failure", fmt.Errorf("chunk 3: %w", webqa.Errorf(webqa.EEMBED, "timeout")), true},
		{"non-HTML page", webqa.Errorf(webqa.EINVALID, "unsupported content type"), false},
		{"missing page", webqa.Errorf(webqa.ENOTFOUND, "HTTP 404"), false},
		{"tokenizer failure", webqa.Errorf(webqa.ETOKENIZE, "bad input"), false},
		{"corrupt corpus", webqa.Errorf(webqa.ECORPUSIO, "bad row"), false},
		{"canceled", context.Canceled, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, retry.Retryable(tt.err))
		})
	}
}

func TestRetrier_Do(t *testing.T) {
	t.Parallel()

	t.Run("returns after first success", func(t *testing.T) {
		t.Parallel()

		var calls int
		err := retry.New(instant, nil).Do(context.Background(), "embed", func(context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient provider errors and logs each retry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		var calls int

		err := retry.New(instant, logger).Do(context.Background(), "embed", func(context.Context) error {
			calls++
			if calls < 3 {
				return webqa.Errorf(webqa.EEMBED, "rate limited")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("msg=retry")))
		assert.Contains(t, buf.String(), "op=embed")
		assert.Contains(t, buf.String(), "attempt=3")
	})

	t.Run("returns last error once delays run out", func(t *testing.T) {
		t.Parallel()

		var calls int
		err := retry.New(instant, nil).Do(context.Background(), "complete", func(context.Context) error {
			calls++
			return webqa.Errorf(webqa.ECOMPLETE, "attempt %d", calls)
		})

		require.Error(t, err)
		assert.Equal(t, "attempt 4", webqa.ErrorMessage(err))
		assert.Equal(t, 4, calls)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		t.Parallel()

		var calls int
		err := retry.New(instant, nil).Do(context.Background(), "fetch", func(context.Context) error {
			calls++
			return webqa.Errorf(webqa.ENOTFOUND, "HTTP 404")
		})

		assert.Equal(t, webqa.ENOTFOUND, webqa.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("custom classifier overrides the default", func(t *testing.T) {
		t.Parallel()

		var calls int
		r := &retry.Retrier{Delays: instant, Retryable: func(error) bool { return false }}
		err := r.Do(context.Background(), "fetch", func(context.Context) error {
			calls++
			return errors.New("connection reset")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation during a wait stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		err := retry.New([]time.Duration{time.Hour}, nil).Do(ctx, "fetch", func(context.Context) error {
			cancel()
			return errors.New("timeout")
		})

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil retrier runs once", func(t *testing.T) {
		t.Parallel()

		var r *retry.Retrier
		var calls int
		err := r.Do(context.Background(), "embed", func(context.Context) error {
			calls++
			return errors.New("boom")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestRetrier_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("retries server errors until the page loads", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				calls++
				if calls == 1 {
					return "", webqa.Errorf(webqa.EINTERNAL, "HTTP 503 for %s", url)
				}
				return "<p>Menu</p>", nil
			},
		}

		html, err := retry.New(instant, nil).Fetch(context.Background(), fetcher, "https://paradiser.example/menu")

		require.NoError(t, err)
		assert.Equal(t, "<p>Menu</p>", html)
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry non-HTML responses", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls++
				return "", webqa.Errorf(webqa.EINVALID, "unsupported content type")
			},
		}

		_, err := retry.New(instant, nil).Fetch(context.Background(), fetcher, "https://paradiser.example/menu.pdf")

		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})
}

func TestDefaultDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, retry.DefaultDelays())
}
