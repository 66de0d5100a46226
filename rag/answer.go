package rag

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/webqa"
)

// DefaultInstruction tells the model to stay within the supplied context.
const DefaultInstruction = `Answer the question based on the context below, and if the question can't be answered based on the context, say "I don't know"`

// ClassicGreeting is the assistant turn some prompts place between the
// context and the question.
const ClassicGreeting = "Hi, how are you doing today? What can I help you with?"

// DefaultMaxAnswerTokens caps the length of a generated answer.
const DefaultMaxAnswerTokens = 150

// AnswerOptions are the per-question settings of an answer call.
type AnswerOptions struct {
	// MaxLen is the token budget of the assembled context.
	MaxLen int

	// MaxTokens caps the completion length.
	MaxTokens int

	// Model selects the completion model. Empty uses the provider default.
	Model string

	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	Stop             []string

	// Debug logs the assembled context before the completion call.
	Debug bool
}

// DefaultAnswerOptions returns deterministic generation settings with the
// default context and answer budgets.
func DefaultAnswerOptions() AnswerOptions {
	return AnswerOptions{
		MaxLen:    DefaultMaxContextTokens,
		MaxTokens: DefaultMaxAnswerTokens,
		TopP:      1,
	}
}

// Answerer answers questions from an assembled context.
type Answerer struct {
	Assembler   *Assembler
	Completer   webqa.Completer
	Instruction string

	// Greeting, when set, is sent as an assistant turn before the question.
	Greeting string

	Logger *slog.Logger

	// DebugWriter receives the assembled context of Debug calls.
	DebugWriter io.Writer
}

// Answer assembles context for question from corpus and asks the completer.
// It is best effort: a failed embedding or completion call is logged and
// yields "", so callers must read "" as "no answer produced".
func (a *Answerer) Answer(ctx context.Context, question string, corpus webqa.Corpus, opts AnswerOptions) string {
	logger := orDiscard(a.Logger)

	contextText, err := a.Assembler.Assemble(ctx, question, corpus, opts.MaxLen)
	if err != nil {
		logger.Error("assemble context", "question", question, "err", err)
		return ""
	}
	if opts.Debug {
		logger.Debug("context", "question", question, "context", contextText)
		if a.DebugWriter != nil {
			fmt.Fprintf(a.DebugWriter, "Context:\n%s\n\n", contextText)
		}
	}

	instruction := a.Instruction
	if instruction == "" {
		instruction = DefaultInstruction
	}

	completion, err := a.Completer.Complete(ctx, &webqa.CompletionRequest{
		Model:            opts.Model,
		Messages:         BuildMessages(instruction, a.Greeting, contextText, question),
		MaxTokens:        opts.MaxTokens,
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
		Stop:             opts.Stop,
	})
	if err != nil {
		logger.Error("complete", "question", question, "err", err)
		return ""
	}
	if completion == nil {
		logger.Error("complete", "question", question, "err", "nil completion")
		return ""
	}

	logger.Debug("answer",
		"model", completion.Model,
		"finish_reason", completion.FinishReason,
		"prompt_tokens", completion.PromptTokens,
		"output_tokens", completion.OutputTokens,
	)
	return completion.Text
}

// BuildMessages builds the prompt: the instruction, the context, the
// optional assistant greeting, and the question, in that order.
func BuildMessages(instruction, greeting, contextText, question string) []webqa.Message {
	msgs := []webqa.Message{
		{Role: webqa.RoleSystem, Content: instruction},
		{Role: webqa.RoleSystem, Content: "Context: " + contextText},
	}
	if greeting != "" {
		msgs = append(msgs, webqa.Message{Role: webqa.RoleAssistant, Content: greeting})
	}
	return append(msgs, webqa.Message{Role: webqa.RoleUser, Content: "Question: " + question})
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
