package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash-lite"

// ErrMissingAPIKey is reported when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("模型配置错误：缺少 GEMINI_API_KEY")

type GeminiClient struct {
	client          *genai.Client
	modelName       string
	topP            float32
	maxOutputTokens int32
}

type GeminiOption func(*GeminiClient)

func WithModel(name string) GeminiOption {
	return func(g *GeminiClient) {
		if name != "" {
			g.modelName = name
		}
	}
}

func WithMaxOutputTokens(n int32) GeminiOption {
	return func(g *GeminiClient) {
		if n > 0 {
			g.maxOutputTokens = n
		}
	}
}

func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &GeminiClient{
		client:          client,
		modelName:       DefaultModel,
		topP:            0.95,
		maxOutputTokens: 4096,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

// Generate runs one GenerateContent call on a GenerativeModel built for this
// call only; the client is safe for concurrent use.
func (g *GeminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(opts.Temperature)
	model.SetTopP(g.topP)
	maxTokens := g.maxOutputTokens
	if opts.MaxOutputTokens > 0 {
		maxTokens = opts.MaxOutputTokens
	}
	model.SetMaxOutputTokens(maxTokens)
	if systemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text in model response")
	}
	return b.String(), nil
}
