package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/crawl"
	"github.com/fwojciec/webqa/fs"
	"github.com/fwojciec/webqa/rag"
)

// Run executes the index command: read the crawled text, persist the
// document table, then chunk, embed, and persist the corpus. Both tables
// are replaced.
func (c *IndexCmd) Run(deps *Dependencies) error {
	begin := time.Now()

	if c.MaxTokens > 0 {
		deps.Builder.MaxChunkTokens = c.MaxTokens
	}
	if c.SkipErrors {
		deps.Builder.OnChunkError = rag.ChunkSkip
	}

	docs, err := fs.ReadDocuments(deps.TextDir)
	if err != nil {
		if webqa.ErrorCode(err) == webqa.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: run 'webqa crawl URL' first")
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no pages in %s\n", deps.TextDir)
		return webqa.Errorf(webqa.ENOTFOUND, "no pages in %s", deps.TextDir)
	}

	if err := deps.Documents.SaveDocuments(deps.Ctx, docs); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	pipeline, err := deps.Builder.Build(deps.Ctx, docs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	corpus := pipeline.Corpus()
	if err := deps.Corpus.SaveCorpus(deps.Ctx, corpus); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	var tokens int
	for _, chunk := range corpus {
		tokens += chunk.TokenCount
	}
	fmt.Fprintf(deps.Stdout, "Indexed %d documents into %d chunks (%s) in %s\n",
		len(docs), corpus.Len(), crawl.FormatTokens(tokens), crawl.FormatDuration(time.Since(begin)))
	return nil
}
