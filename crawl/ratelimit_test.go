package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/webqa/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waited reports how long one Wait on host took.
func waited(t *testing.T, l *crawl.HostLimiter, host string) time.Duration {
	t.Helper()
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), host))
	return time.Since(start)
}

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("second request to a host waits for the next token", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewHostLimiter(10, 1)

		assert.Less(t, waited(t, l, "paradiser.example"), 50*time.Millisecond)
		assert.GreaterOrEqual(t, waited(t, l, "paradiser.example"), 80*time.Millisecond)
	})

	t.Run("www prefix, case and port share one bucket", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewHostLimiter(10, 1)

		waited(t, l, "www.Paradiser.example:443")

		assert.GreaterOrEqual(t, waited(t, l, "paradiser.example"), 80*time.Millisecond)
	})

	t.Run("other hosts are not slowed down", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewHostLimiter(10, 1)

		waited(t, l, "paradiser.example")

		assert.Less(t, waited(t, l, "cdn.paradiser.example"), 50*time.Millisecond)
	})

	t.Run("burst lets several requests through at once", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewHostLimiter(1, 3)

		start := time.Now()
		for range 3 {
			require.NoError(t, l.Wait(context.Background(), "paradiser.example"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("zero rate disables limiting", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewHostLimiter(0, 0)

		start := time.Now()
		for range 100 {
			require.NoError(t, l.Wait(context.Background(), "paradiser.example"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("disabled limiter still reports cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := crawl.NewHostLimiter(0, 1).Wait(ctx, "paradiser.example")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("gives up when the context ends before a token is free", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewHostLimiter(1, 1)
		waited(t, l, "paradiser.example")

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "paradiser.example"))
	})
}
