// Package pack fans a product profile out to per-platform copy generation and
// joins the results into one SellingPack.
package pack

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/sellboost-agent/internal/llm"
	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/normalize"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
	"github.com/BerylCAtieno/sellboost-agent/internal/prompt"
	"github.com/BerylCAtieno/sellboost-agent/internal/safeerr"
)

const (
	DefaultTemperature    = 0.8
	DefaultMaxConcurrency = 5
)

// Request carries everything needed to generate a pack.
type Request struct {
	Product        models.AnalyzedProduct `json:"product"`
	Platforms      []models.PlatformID    `json:"platforms"`
	BrandVoice     *models.BrandVoice     `json:"brandVoice,omitempty"`
	PublishMode    models.PublishMode     `json:"publishMode"`
	ConversionGoal models.ConversionGoal  `json:"conversionGoal"`
	FocusAngle     string                 `json:"focusAngle,omitempty"`
}

type Orchestrator struct {
	gen            llm.Generator
	table          *platforms.Table
	temperature    float32
	maxConcurrency int
	now            func() time.Time
	log            zerolog.Logger
}

type Option func(*Orchestrator)

func WithTemperature(t float32) Option {
	return func(o *Orchestrator) { o.temperature = t }
}

// WithMaxConcurrency bounds in-flight platform calls. Values below 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

func New(gen llm.Generator, table *platforms.Table, opts ...Option) *Orchestrator {
	if table == nil {
		table = platforms.Default()
	}
	o := &Orchestrator{
		gen:            gen,
		table:          table,
		temperature:    DefaultTemperature,
		maxConcurrency: DefaultMaxConcurrency,
		now:            time.Now,
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate produces one PlatformContent per requested platform. Calls run
// concurrently; the first failure cancels the rest and fails the whole pack,
// so a returned pack always covers every requested platform.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*models.SellingPack, error) {
	ids, err := o.validatePlatforms(req.Platforms)
	if err != nil {
		return nil, err
	}
	focus, err := prompt.ValidateFocusAngle(req.FocusAngle)
	if err != nil {
		return nil, err
	}

	mode := models.ParsePublishMode(string(req.PublishMode))
	goal := models.ParseConversionGoal(string(req.ConversionGoal))
	brand := req.BrandVoice
	if !brand.HasContent() {
		brand = nil
	}

	userMsg, err := prompt.PlatformUserMessage(req.Product, focus)
	if err != nil {
		return nil, err
	}

	o.log.Info().
		Str("product", req.Product.Name).
		Int("platforms", len(ids)).
		Str("publish_mode", string(mode)).
		Str("goal", string(goal)).
		Bool("brand_voice", brand != nil).
		Msg("generating selling pack")

	results := make([]models.PlatformContent, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrency)

	for i, id := range ids {
		i, id := i, id
		rule, _ := o.table.Rule(id)
		system := prompt.PlatformSystemPrompt(rule, mode, goal, brand)

		g.Go(func() error {
			raw, err := o.gen.Generate(gctx, system, userMsg, llm.Options{
				JSON:        true,
				Temperature: o.temperature,
			})
			if err != nil {
				return fmt.Errorf("generate %s copy: %w", id, err)
			}
			content, err := normalize.DecodePlatformContent(id, rule.Name, raw)
			if err != nil {
				return fmt.Errorf("decode %s copy: %w", id, err)
			}
			results[i] = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.log.Warn().Err(err).Msg("selling pack generation failed")
		return nil, err
	}

	return &models.SellingPack{
		Product:     req.Product,
		Platforms:   results,
		GeneratedAt: o.now().UTC(),
	}, nil
}

func (o *Orchestrator) validatePlatforms(requested []models.PlatformID) ([]models.PlatformID, error) {
	seen := make(map[models.PlatformID]bool, len(requested))
	ids := make([]models.PlatformID, 0, len(requested))
	for _, id := range requested {
		if _, ok := o.table.Rule(id); !ok {
			return nil, safeerr.Input(fmt.Sprintf("请选择有效的平台：不支持 %q", id))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, safeerr.Input("请至少选择一个目标平台")
	}
	return ids, nil
}
