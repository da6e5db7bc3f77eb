// Package llm is the text-generation boundary. Callers only see Generator;
// GeminiClient is the production implementation.
package llm

import "context"

// Options tune a single generation call.
type Options struct {
	// JSON asks the model for an application/json response.
	JSON        bool
	Temperature float32
	// MaxOutputTokens of zero keeps the client default.
	MaxOutputTokens int32
}

// Generator produces text from a system instruction and a user message.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	return f(ctx, systemPrompt, userPrompt, opts)
}
