package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/crawl"
	"github.com/fwojciec/webqa/csv"
	"github.com/fwojciec/webqa/fs"
	"github.com/fwojciec/webqa/gemini"
	"github.com/fwojciec/webqa/goquery"
	"github.com/fwojciec/webqa/htmltomarkdown"
	webqahttp "github.com/fwojciec/webqa/http"
	"github.com/fwojciec/webqa/rag"
	"github.com/fwojciec/webqa/readability"
	"github.com/fwojciec/webqa/retry"
	"github.com/fwojciec/webqa/rod"
	wslog "github.com/fwojciec/webqa/slog"
	"github.com/fwojciec/webqa/sqlite"
	"github.com/fwojciec/webqa/tiktoken"
	"github.com/fwojciec/webqa/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before parsing. Variables
	// already set are kept.
	EnvFile string

	// Getenv reads configuration overrides.
	Getenv func(string) string

	// Config is the resolved configuration of the last Run.
	Config *Config

	// SQLite database used by the sqlite storage backend.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFile: ".env",
		Getenv:  os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		// A missing .env is fine.
		_ = godotenv.Load(m.EnvFile)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webqa"),
		kong.Description("Answer questions about a website from its own text."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webqa --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := m.loadConfig(cli)
	if err != nil {
		return err
	}
	m.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.TextDir = cfg.TextDir()
	deps.AnswerOptions = cfg.AnswerOptions()

	defer m.Close()

	switch strings.Fields(kongCtx.Command())[0] {
	case "crawl":
		if err := m.wireCrawler(deps, cfg, cli); err != nil {
			return err
		}
	case "index", "ask":
		if err := m.wireStores(deps, cfg); err != nil {
			return err
		}
		if err := m.wireBuilder(ctx, deps, cfg); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// loadConfig resolves the configuration: defaults, the file, the
// environment, then global flags.
func (m *Main) loadConfig(cli *CLI) (*Config, error) {
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	explicit := cli.Config != "webqa.yaml"
	cfg, err := LoadConfig(cli.Config, explicit, getenv)
	if err != nil {
		return nil, err
	}

	if cli.DataDir != "" {
		cfg.DataDir = cli.DataDir
	}
	if cli.DB != "" {
		cfg.DBPath = cli.DB
	}
	if cli.Storage != "" {
		cfg.Storage = cli.Storage
	}
	if cli.Crawl.Fetcher != "" {
		cfg.Crawl.Fetcher = cli.Crawl.Fetcher
	}
	if cli.Crawl.Sitemap {
		cfg.Crawl.Sitemap = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// wireCrawler builds the crawler for the configured fetcher, extractor, and
// converter.
func (m *Main) wireCrawler(deps *Dependencies, cfg *Config, cli *CLI) error {
	var fetcher webqa.Fetcher
	switch cfg.Crawl.Fetcher {
	case "rod":
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Crawl.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	default:
		fetcher = webqahttp.NewFetcher(
			webqahttp.WithTimeout(cfg.Crawl.Timeout),
			webqahttp.WithUserAgent(cfg.Crawl.UserAgent),
		)
	}
	m.closers = append(m.closers, fetcher)

	c := &crawl.Crawler{
		Fetcher:     wslog.NewLoggingFetcher(fetcher, deps.Logger),
		Links:       goquery.NewLinkExtractor(),
		Extractor:   newExtractor(cfg.Crawl.Extractor),
		Converter:   newConverter(cfg.Crawl.Converter),
		Pages:       fs.NewFileStore(cfg.DataDir, "text"),
		Concurrency: cfg.Crawl.Concurrency,
		RetryDelays: cfg.Crawl.RetryDelays,
		Logger:      deps.Logger,
	}
	if cfg.Crawl.Sitemap {
		sitemaps := webqahttp.NewSitemapService(&http.Client{Timeout: cfg.Crawl.Timeout})
		sitemaps.UserAgent = cfg.Crawl.UserAgent
		c.Sitemaps = wslog.NewLoggingSitemapService(sitemaps, deps.Logger)
	}
	if cfg.Crawl.RateLimit > 0 {
		c.RateLimiter = crawl.NewHostLimiter(cfg.Crawl.RateLimit, cfg.Crawl.RateBurst)
	}
	if cfg.Crawl.CountTokens {
		counter, err := newTokenCounter(cfg)
		if err != nil {
			deps.Logger.Warn("token counts disabled", "err", err)
		} else {
			c.TokenCounter = counter
		}
	}

	deps.Crawler = c
	return nil
}

func newExtractor(name string) webqa.Extractor {
	whole := goquery.NewTextExtractor()
	switch name {
	case "readability":
		return readability.NewExtractor(whole)
	case "trafilatura":
		return trafilatura.NewExtractor(whole)
	default:
		return whole
	}
}

func newConverter(name string) webqa.Converter {
	if name == "markdown" {
		return htmltomarkdown.NewConverter()
	}
	return goquery.NewTextConverter()
}

func newTokenCounter(cfg *Config) (webqa.TokenCounter, error) {
	if cfg.Index.Tokenizer == "gemini" {
		return gemini.NewTokenizer(cfg.Gemini.Model)
	}
	return tiktoken.NewTokenizer(cfg.Index.Encoding)
}

// wireStores opens the document and corpus tables.
func (m *Main) wireStores(deps *Dependencies, cfg *Config) error {
	if cfg.Storage == "csv" {
		dir := cfg.ProcessedDir()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		deps.Documents = csv.NewDocumentStore(filepath.Join(dir, csv.ScrapedFile))
		deps.Corpus = csv.NewCorpusStore(filepath.Join(dir, csv.EmbeddingsFile))
		return nil
	}

	path := cfg.Database()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set WEBQA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	deps.Documents = sqlite.NewDocumentStore(m.DB)
	deps.Corpus = sqlite.NewCorpusStore(m.DB)
	return nil
}

// wireBuilder connects the tokenizer and the Gemini providers.
func (m *Main) wireBuilder(ctx context.Context, deps *Dependencies, cfg *Config) error {
	if cfg.Gemini.APIKey == "" {
		fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return webqa.Errorf(webqa.EINVALID, "GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	tokens, err := newTokenCounter(cfg)
	if err != nil {
		return err
	}

	embedder := gemini.NewEmbedder(client, cfg.Gemini.EmbeddingModel)
	embedder.TaskType = cfg.Gemini.TaskType
	embedder.Dimensionality = cfg.Gemini.Dimensionality
	embedder.Timeout = cfg.Gemini.Timeout

	completer := gemini.NewCompleter(client, cfg.Gemini.Model)
	completer.Timeout = cfg.Gemini.Timeout

	policy, err := rag.ParseChunkErrorPolicy(cfg.Index.OnChunkError)
	if err != nil {
		return err
	}

	var embed webqa.Embedder = wslog.NewLoggingEmbedder(embedder, deps.Logger)
	if len(cfg.Index.EmbedRetryDelays) > 0 {
		embed = retry.NewEmbedder(embed, retry.New(cfg.Index.EmbedRetryDelays, deps.Logger))
	}

	b := rag.NewBuilder(tokens, embed, wslog.NewLoggingCompleter(completer, deps.Logger))
	b.MaxChunkTokens = cfg.Index.MaxTokens
	b.SentenceOverhead = cfg.Index.SentenceOverhead
	b.ChunkOverhead = cfg.Answer.ContextOverhead
	b.OnChunkError = policy
	b.Instruction = cfg.Answer.Instruction
	b.Greeting = cfg.Answer.Greeting
	b.Options = deps.AnswerOptions
	b.Logger = deps.Logger
	b.DebugWriter = deps.Stdout

	deps.Builder = b
	return nil
}
