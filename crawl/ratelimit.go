package crawl

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/webqa"
	"golang.org/x/time/rate"
)

var _ webqa.DomainLimiter = (*HostLimiter)(nil)

// HostLimiter spaces out requests to each host with its own token bucket.
// Hosts are keyed without case, port, or a leading "www.", so
// www.Example.com:443 and example.com share one bucket.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewHostLimiter allows rps requests per second to each host, with up to
// burst requests back to back. A burst below 1 is raised to 1. A rate of
// zero or less disables limiting.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.limit <= 0 {
		return ctx.Err()
	}
	return l.bucket(host).Wait(ctx)
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	key := hostKey(host)

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}

func hostKey(host string) string {
	h := strings.ToLower(host)
	if name, _, err := net.SplitHostPort(h); err == nil {
		h = name
	}
	return strings.TrimPrefix(h, "www.")
}
