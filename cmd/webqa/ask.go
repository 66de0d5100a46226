package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/webqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	corpus, err := deps.Corpus.LoadCorpus(deps.Ctx)
	if err != nil {
		if webqa.ErrorCode(err) == webqa.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: run 'webqa index' first")
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}
	if corpus.Len() == 0 {
		fmt.Fprintln(deps.Stderr, "error: the corpus is empty. Run 'webqa index' first.")
		return webqa.Errorf(webqa.ENOTFOUND, "corpus is empty")
	}

	pipeline, err := deps.Builder.Open(corpus)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	opts := deps.AnswerOptions
	if c.MaxLen > 0 {
		opts.MaxLen = c.MaxLen
	}
	if c.MaxTokens > 0 {
		opts.MaxTokens = c.MaxTokens
	}
	if c.Model != "" {
		opts.Model = c.Model
	}
	if c.Temperature >= 0 {
		opts.Temperature = c.Temperature
	}
	opts.Debug = c.Debug

	for _, q := range c.Questions {
		if strings.TrimSpace(q) == "" {
			fmt.Fprintln(deps.Stderr, "error: question required")
			return webqa.Errorf(webqa.EINVALID, "question required")
		}
		answer := pipeline.Answer(deps.Ctx, q, opts)
		if answer == "" {
			fmt.Fprintf(deps.Stderr, "no answer for %q\n", q)
			continue
		}
		fmt.Fprintln(deps.Stdout, answer)
	}
	return nil
}
