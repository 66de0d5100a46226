package gemini

import (
	"context"
	"time"

	"github.com/fwojciec/webqa"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is used when Embedder.Model is empty.
const DefaultEmbeddingModel = "gemini-embedding-001"

// Ensure Embedder implements webqa.Embedder at compile time.
var _ webqa.Embedder = (*Embedder)(nil)

// Embedder implements webqa.Embedder using the Gemini embeddings API.
type Embedder struct {
	client *genai.Client

	Model string

	// TaskType hints the intended use, e.g. "RETRIEVAL_DOCUMENT".
	TaskType string

	// Dimensionality truncates vectors when positive.
	Dimensionality int32

	// Timeout bounds each call when positive.
	Timeout time.Duration
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, Model: model}
}

// Embed returns the embedding vector of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	result, err := e.client.Models.EmbedContent(ctx, e.Model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		BuildEmbedConfig(e.TaskType, e.Dimensionality),
	)
	if err != nil {
		return nil, webqa.Errorf(webqa.EEMBED, "gemini embed: %v", err)
	}
	return VectorFromResponse(result)
}

// BuildEmbedConfig returns the EmbedContentConfig for an embedding call,
// or nil when no option is set.
func BuildEmbedConfig(taskType string, dimensionality int32) *genai.EmbedContentConfig {
	if taskType == "" && dimensionality <= 0 {
		return nil
	}
	config := &genai.EmbedContentConfig{TaskType: taskType}
	if dimensionality > 0 {
		config.OutputDimensionality = &dimensionality
	}
	return config
}

// VectorFromResponse returns the single embedding in result.
func VectorFromResponse(result *genai.EmbedContentResponse) ([]float32, error) {
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, webqa.Errorf(webqa.EEMBED, "gemini returned no embedding")
	}
	values := result.Embeddings[0].Values
	if len(values) == 0 {
		return nil, webqa.Errorf(webqa.EEMBED, "gemini returned an empty embedding")
	}
	return values, nil
}
