// Package profiler runs the product analysis stage: link filtering, page
// reduction, prompt composition, the model call and normalization.
package profiler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BerylCAtieno/sellboost-agent/internal/llm"
	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/normalize"
	"github.com/BerylCAtieno/sellboost-agent/internal/pagefetch"
	"github.com/BerylCAtieno/sellboost-agent/internal/prompt"
)

const DefaultTemperature = 0.3

// PageReducer yields a plain-text snippet for a pre-validated URL, or false.
type PageReducer interface {
	Reduce(ctx context.Context, pageURL string) (string, bool)
}

type AnalyzeRequest struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type Profiler struct {
	gen         llm.Generator
	pages       PageReducer
	temperature float32
	log         zerolog.Logger
}

type Option func(*Profiler)

func WithTemperature(t float32) Option {
	return func(p *Profiler) { p.temperature = t }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Profiler) { p.log = log }
}

// New builds a Profiler. pages may be nil, in which case links are only
// referenced, never fetched.
func New(gen llm.Generator, pages PageReducer, opts ...Option) *Profiler {
	p := &Profiler{
		gen:         gen,
		pages:       pages,
		temperature: DefaultTemperature,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnalyzeProduct validates the request and turns it into a normalized
// product profile. Input problems come back as safeerr input errors; an
// unusable link or page is silently skipped.
func (p *Profiler) AnalyzeProduct(ctx context.Context, req AnalyzeRequest) (*models.AnalyzedProduct, error) {
	text, err := prompt.ValidateDescription(req.Text)
	if err != nil {
		return nil, err
	}

	var snippet string
	safeURL, ok := pagefetch.SafeURL(req.URL)
	if ok && p.pages != nil {
		snippet, _ = p.pages.Reduce(ctx, safeURL)
	}
	if req.URL != "" && !ok {
		p.log.Debug().Str("url", req.URL).Msg("product link rejected by safety filter")
	}

	userMsg := prompt.AnalysisUserMessage(text, safeURL, snippet)

	p.log.Info().
		Int("text_len", len(text)).
		Bool("has_link", safeURL != "").
		Bool("has_snippet", snippet != "").
		Msg("analyzing product")

	raw, err := p.gen.Generate(ctx, prompt.AnalysisSystemPrompt, userMsg, llm.Options{
		JSON:        true,
		Temperature: p.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate product analysis: %w", err)
	}

	product, err := normalize.DecodeProduct(raw)
	if err != nil {
		p.log.Warn().Err(err).Msg("model returned unusable analysis")
		return nil, fmt.Errorf("decode product analysis: %w", err)
	}

	return &product, nil
}
