package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/gemini"
	webqahttp "github.com/fwojciec/webqa/http"
	"github.com/fwojciec/webqa/rag"
	"github.com/fwojciec/webqa/retry"
	"github.com/fwojciec/webqa/tiktoken"
	"gopkg.in/yaml.v3"
)

// Config is the webqa configuration file. Fields absent from the file keep
// their defaults.
type Config struct {
	// DataDir holds text/ and processed/.
	DataDir string `yaml:"data_dir"`

	// Storage selects the table backend: "sqlite" or "csv".
	Storage string `yaml:"storage"`

	// DBPath is the SQLite database. Empty means <data_dir>/webqa.db.
	DBPath string `yaml:"db_path"`

	Crawl  CrawlConfig  `yaml:"crawl"`
	Index  IndexConfig  `yaml:"index"`
	Gemini GeminiConfig `yaml:"gemini"`
	Answer AnswerConfig `yaml:"answer"`
}

// CrawlConfig configures page collection.
type CrawlConfig struct {
	Fetcher     string          `yaml:"fetcher"`   // http | rod
	Extractor   string          `yaml:"extractor"` // text | readability | trafilatura
	Converter   string          `yaml:"converter"` // text | markdown
	Timeout     time.Duration   `yaml:"timeout"`
	UserAgent   string          `yaml:"user_agent"`
	Concurrency int             `yaml:"concurrency"`
	RateLimit   float64         `yaml:"rate_limit"` // requests per second per host, 0 = unlimited
	RateBurst   int             `yaml:"rate_burst"`
	RetryDelays []time.Duration `yaml:"retry_delays"`
	Sitemap     bool            `yaml:"sitemap"`
	CountTokens bool            `yaml:"count_tokens"`
}

// IndexConfig configures chunking.
type IndexConfig struct {
	Tokenizer        string `yaml:"tokenizer"` // tiktoken | gemini
	Encoding         string `yaml:"encoding"`
	MaxTokens        int    `yaml:"max_tokens"`
	SentenceOverhead int    `yaml:"sentence_overhead"`
	OnChunkError     string `yaml:"on_chunk_error"` // abort | skip

	// EmbedRetryDelays are the waits between embedding attempts of one
	// chunk. Empty embeds each chunk once.
	EmbedRetryDelays []time.Duration `yaml:"embed_retry_delays"`
}

// GeminiConfig configures the embedding and completion providers.
type GeminiConfig struct {
	APIKey         string        `yaml:"api_key"`
	EmbeddingModel string        `yaml:"embedding_model"`
	TaskType       string        `yaml:"task_type"`
	Dimensionality int32         `yaml:"dimensionality"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
}

// AnswerConfig holds the default answer options.
type AnswerConfig struct {
	MaxLen           int      `yaml:"max_len"`
	MaxTokens        int      `yaml:"max_tokens"`
	Temperature      float32  `yaml:"temperature"`
	TopP             float32  `yaml:"top_p"`
	FrequencyPenalty float32  `yaml:"frequency_penalty"`
	PresencePenalty  float32  `yaml:"presence_penalty"`
	Stop             []string `yaml:"stop"`
	ContextOverhead  int      `yaml:"context_overhead"`
	Instruction      string   `yaml:"instruction"`
	Greeting         string   `yaml:"greeting"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	opts := rag.DefaultAnswerOptions()
	return &Config{
		DataDir: ".",
		Storage: "sqlite",
		Crawl: CrawlConfig{
			Fetcher:     "http",
			Extractor:   "text",
			Converter:   "text",
			Timeout:     webqahttp.DefaultFetchTimeout,
			Concurrency: 1,
			RetryDelays: retry.DefaultDelays(),
			CountTokens: true,
		},
		Index: IndexConfig{
			Tokenizer:        "tiktoken",
			Encoding:         tiktoken.DefaultEncoding,
			MaxTokens:        rag.DefaultMaxChunkTokens,
			SentenceOverhead: rag.DefaultSentenceOverhead,
			OnChunkError:     "abort",
		},
		Gemini: GeminiConfig{
			EmbeddingModel: gemini.DefaultEmbeddingModel,
			Model:          gemini.DefaultModel,
		},
		Answer: AnswerConfig{
			MaxLen:          opts.MaxLen,
			MaxTokens:       opts.MaxTokens,
			Temperature:     opts.Temperature,
			TopP:            opts.TopP,
			ContextOverhead: rag.DefaultChunkOverhead,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error unless the path
// was given explicitly.
func LoadConfig(path string, explicit bool, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, webqa.Errorf(webqa.EINVALID, "parse config %s: %v", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := getenv("WEBQA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("WEBQA_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	return cfg, nil
}

// Validate reports the first setting outside its allowed values.
func (c *Config) Validate() error {
	checks := []struct {
		name, value string
		allowed     []string
	}{
		{"storage", c.Storage, []string{"sqlite", "csv"}},
		{"crawl.fetcher", c.Crawl.Fetcher, []string{"http", "rod"}},
		{"crawl.extractor", c.Crawl.Extractor, []string{"text", "readability", "trafilatura"}},
		{"crawl.converter", c.Crawl.Converter, []string{"text", "markdown"}},
		{"index.tokenizer", c.Index.Tokenizer, []string{"tiktoken", "gemini"}},
	}
	for _, check := range checks {
		if !slices.Contains(check.allowed, check.value) {
			return webqa.Errorf(webqa.EINVALID, "%s must be one of %v, got %q", check.name, check.allowed, check.value)
		}
	}
	if _, err := rag.ParseChunkErrorPolicy(c.Index.OnChunkError); err != nil {
		return err
	}
	if c.Index.MaxTokens <= 0 {
		return webqa.Errorf(webqa.EINVALID, "index.max_tokens must be positive")
	}
	if c.Answer.MaxLen <= 0 {
		return webqa.Errorf(webqa.EINVALID, "answer.max_len must be positive")
	}
	return nil
}

// TextDir is where crawled page text is stored.
func (c *Config) TextDir() string {
	return filepath.Join(c.DataDir, "text")
}

// ProcessedDir holds the CSV tables.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.DataDir, "processed")
}

// Database returns the SQLite path.
func (c *Config) Database() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "webqa.db")
}

// AnswerOptions converts the answer settings.
func (c *Config) AnswerOptions() rag.AnswerOptions {
	return rag.AnswerOptions{
		MaxLen:           c.Answer.MaxLen,
		MaxTokens:        c.Answer.MaxTokens,
		Model:            c.Gemini.Model,
		Temperature:      c.Answer.Temperature,
		TopP:             c.Answer.TopP,
		FrequencyPenalty: c.Answer.FrequencyPenalty,
		PresencePenalty:  c.Answer.PresencePenalty,
		Stop:             c.Answer.Stop,
	}
}
