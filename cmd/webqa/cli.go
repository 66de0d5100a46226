package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/crawl"
	"github.com/fwojciec/webqa/rag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// TextDir is where crawled pages are stored and indexed from.
	TextDir string

	Crawler   *crawl.Crawler
	Documents webqa.DocumentStore
	Corpus    webqa.CorpusStore
	Builder   *rag.Builder

	// AnswerOptions are the configured defaults for ask.
	AnswerOptions rag.AnswerOptions
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" env:"WEBQA_CONFIG" default:"webqa.yaml" help:"Config file"`
	DataDir string `short:"d" help:"Directory holding text/ and processed/"`
	DB      string `help:"SQLite database path"`
	Storage string `help:"Table storage (sqlite or csv)"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Crawl CrawlCmd `cmd:"" help:"Crawl a site and save each linked page's text"`
	Index IndexCmd `cmd:"" help:"Chunk and embed the crawled text"`
	Ask   AskCmd   `cmd:"" help:"Answer questions from the indexed site"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string   `arg:"" help:"Root URL of the site"`
	Sitemap     bool     `help:"Also crawl pages listed in the site's sitemaps"`
	Filter      []string `short:"F" name:"filter" help:"Only crawl URLs matching regex (repeatable)"`
	Exclude     []string `short:"x" help:"Skip URLs matching regex (repeatable)"`
	Concurrency int      `short:"c" help:"Concurrent fetch limit"`
	Fetcher     string   `help:"Page fetcher (http or rod)"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	MaxTokens  int  `help:"Maximum tokens per chunk"`
	SkipErrors bool `help:"Skip documents that fail to chunk"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Questions   []string `arg:"" name:"question" help:"Questions to answer"`
	MaxLen      int      `help:"Context token budget"`
	MaxTokens   int      `help:"Maximum answer tokens"`
	Model       string   `help:"Completion model"`
	Temperature float32  `default:"-1" help:"Sampling temperature (negative keeps the configured value)"`
	Debug       bool     `help:"Print the assembled context"`
}
