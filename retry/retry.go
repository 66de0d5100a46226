// Package retry repeats provider calls that fail with transient errors.
//
// The RAG core never retries on its own; retries belong to the
// collaborators it calls, so they are added here as decorators and
// helpers used by the crawler and the embedding provider.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
)

// DefaultDelays returns the waits between page fetch attempts: 1s, 2s, 4s.
func DefaultDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether err may succeed on another attempt.
// Invalid input, missing resources, tokenizer failures and corrupt corpus
// data fail the same way every time. Provider failures (EEMBED, ECOMPLETE)
// and uncoded errors are treated as transient.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch webqa.ErrorCode(err) {
	case webqa.EINVALID, webqa.ENOTFOUND, webqa.ETOKENIZE, webqa.ECORPUSIO:
		return false
	}
	return true
}

// Retrier runs an operation once, then again after each of Delays while
// the error stays retryable. A nil Retrier runs the operation once.
type Retrier struct {
	Delays []time.Duration

	// Retryable classifies errors. Nil uses the package Retryable.
	Retryable func(error) bool

	Logger *slog.Logger
}

// New returns a Retrier waiting delays between attempts.
func New(delays []time.Duration, logger *slog.Logger) *Retrier {
	return &Retrier{Delays: delays, Logger: logger}
}

// Do calls op until it succeeds, fails permanently, or the delays run out,
// and returns the last error. Canceling ctx during a wait returns ctx.Err().
func (r *Retrier) Do(ctx context.Context, name string, op func(context.Context) error) error {
	if r == nil {
		return op(ctx)
	}
	classify := r.Retryable
	if classify == nil {
		classify = Retryable
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if attempt >= len(r.Delays) || !classify(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := r.Delays[attempt]
		logger.Debug("retry", "op", name, "attempt", attempt+2, "delay", delay, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Fetch fetches url through fetcher, retrying transient failures.
func (r *Retrier) Fetch(ctx context.Context, fetcher webqa.Fetcher, url string) (string, error) {
	var html string
	err := r.Do(ctx, "fetch "+url, func(ctx context.Context) error {
		var err error
		html, err = fetcher.Fetch(ctx, url)
		return err
	})
	return html, err
}
