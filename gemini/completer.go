package gemini

import (
	"context"
	"time"

	"github.com/fwojciec/webqa"
	"google.golang.org/genai"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements webqa.Completer at compile time.
var _ webqa.Completer = (*Completer)(nil)

// Completer implements webqa.Completer using Google Gemini.
type Completer struct {
	client *genai.Client

	// Model is used when a request names no model.
	Model string

	// Timeout bounds each call when positive.
	Timeout time.Duration
}

// NewCompleter creates a new Completer.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, Model: model}
}

// Complete runs one generation request.
func (c *Completer) Complete(ctx context.Context, req *webqa.CompletionRequest) (*webqa.Completion, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, webqa.Errorf(webqa.EINVALID, "messages required")
	}

	model := req.Model
	if model == "" {
		model = c.Model
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	config, contents := BuildRequest(req)
	if len(contents) == 0 {
		return nil, webqa.Errorf(webqa.EINVALID, "at least one user message required")
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, webqa.Errorf(webqa.ECOMPLETE, "gemini generate: %v", err)
	}
	if result == nil {
		return nil, webqa.Errorf(webqa.ECOMPLETE, "gemini returned nil result")
	}

	completion := CompletionFromResponse(result)
	if completion.Model == "" {
		completion.Model = model
	}
	return completion, nil
}

// BuildRequest maps a completion request onto Gemini's shape. System
// messages become parts of the system instruction, in order; user and
// assistant messages become the conversation contents. Sampling values
// that Gemini treats as optional are sent only when they carry a setting.
func BuildRequest(req *webqa.CompletionRequest) (*genai.GenerateContentConfig, []*genai.Content) {
	config := &genai.GenerateContentConfig{
		Temperature:   genai.Ptr(req.Temperature),
		StopSequences: req.Stop,
	}
	if req.TopP > 0 {
		config.TopP = genai.Ptr(req.TopP)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.FrequencyPenalty != 0 {
		config.FrequencyPenalty = genai.Ptr(req.FrequencyPenalty)
	}
	if req.PresencePenalty != 0 {
		config.PresencePenalty = genai.Ptr(req.PresencePenalty)
	}

	var (
		system   []*genai.Part
		contents []*genai.Content
	)
	for _, m := range req.Messages {
		switch m.Role {
		case webqa.RoleSystem:
			system = append(system, genai.NewPartFromText(m.Content))
		case webqa.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}
	return config, contents
}

// CompletionFromResponse extracts the answer text and usage from result.
func CompletionFromResponse(result *genai.GenerateContentResponse) *webqa.Completion {
	completion := &webqa.Completion{
		Text:  result.Text(),
		Model: result.ModelVersion,
	}
	if len(result.Candidates) > 0 && result.Candidates[0] != nil {
		completion.FinishReason = string(result.Candidates[0].FinishReason)
	}
	if u := result.UsageMetadata; u != nil {
		completion.PromptTokens = int(u.PromptTokenCount)
		completion.OutputTokens = int(u.CandidatesTokenCount)
	}
	return completion
}
