package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
)

// Ensure LoggingCompleter implements webqa.Completer.
var _ webqa.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with request logging.
// Message contents are never logged.
type LoggingCompleter struct {
	next   webqa.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next webqa.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs usage.
func (c *LoggingCompleter) Complete(ctx context.Context, req *webqa.CompletionRequest) (resp *webqa.Completion, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if req != nil {
			attrs = append(attrs, "messages", len(req.Messages), "max_tokens", req.MaxTokens)
		}
		if resp != nil {
			attrs = append(attrs,
				"model", resp.Model,
				"finish_reason", resp.FinishReason,
				"prompt_tokens", resp.PromptTokens,
				"output_tokens", resp.OutputTokens,
			)
		}
		attrs = append(attrs, "err", err)
		c.logger.Info("complete", attrs...)
	}(time.Now())
	return c.next.Complete(ctx, req)
}
