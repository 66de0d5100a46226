package webqa

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a structured chat prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest holds a prompt and the generation parameters passed
// through to the model.
type CompletionRequest struct {
	// Model identifier. Empty selects the provider default.
	Model    string    `json:"model,omitempty"`
	Messages []Message `json:"messages"`

	MaxTokens        int      `json:"maxTokens,omitempty"`
	Temperature      float32  `json:"temperature"`
	TopP             float32  `json:"topP"`
	FrequencyPenalty float32  `json:"frequencyPenalty"`
	PresencePenalty  float32  `json:"presencePenalty"`
	Stop             []string `json:"stop,omitempty"`
}

// Completion is the result of a completion call.
type Completion struct {
	Text         string `json:"text"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	PromptTokens int    `json:"promptTokens,omitempty"`
	OutputTokens int    `json:"outputTokens,omitempty"`
}

// Completer generates a model response for a structured prompt.
type Completer interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}
