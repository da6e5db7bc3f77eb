// Package pipeline runs a full generation: product analysis, platform
// fan-out, then a history entry for the successful run.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/pack"
	"github.com/BerylCAtieno/sellboost-agent/internal/profiler"
)

// Stage names the step of a run that failed.
type Stage string

const (
	StageAnalysis Stage = "analysis"
	StagePack     Stage = "pack"
)

// StageError tags a failure with its stage. Its message is the underlying
// error's, so input and whitelisted messages read the same to clients.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage reports the stage recorded on err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// Analyzer produces a product profile from a description.
type Analyzer interface {
	AnalyzeProduct(ctx context.Context, req profiler.AnalyzeRequest) (*models.AnalyzedProduct, error)
}

// PackGenerator fans a profile out to platforms.
type PackGenerator interface {
	Generate(ctx context.Context, req pack.Request) (*models.SellingPack, error)
}

// Recorder stores successful runs.
type Recorder interface {
	Append(ctx context.Context, item models.GenerateHistoryItem)
}

// Request mirrors the inputs a user fills in for one run.
type Request struct {
	Text           string                `json:"text"`
	URL            string                `json:"url,omitempty"`
	Platforms      []models.PlatformID   `json:"platforms,omitempty"`
	UseBrandVoice  bool                  `json:"useBrandVoice"`
	BrandProfileID *string               `json:"brandProfileId,omitempty"`
	BrandVoice     *models.BrandVoice    `json:"brandVoice,omitempty"`
	PublishMode    models.PublishMode    `json:"publishMode"`
	ConversionGoal models.ConversionGoal `json:"conversionGoal"`
	FocusAngle     string                `json:"focusAngle,omitempty"`
}

type Pipeline struct {
	analyzer Analyzer
	packs    PackGenerator
	history  Recorder
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Pipeline)

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New wires the stages. history may be nil to skip recording.
func New(analyzer Analyzer, packs PackGenerator, history Recorder, opts ...Option) *Pipeline {
	p := &Pipeline{
		analyzer: analyzer,
		packs:    packs,
		history:  history,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the whole chain. Nothing is recorded unless both stages
// succeed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.GenerateHistoryItem, error) {
	product, err := p.analyzer.AnalyzeProduct(ctx, profiler.AnalyzeRequest{Text: req.Text, URL: req.URL})
	if err != nil {
		return nil, &StageError{Stage: StageAnalysis, Err: err}
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = models.DefaultPlatforms()
	}

	var brand *models.BrandVoice
	if req.UseBrandVoice {
		brand = req.BrandVoice
	}

	generated, err := p.packs.Generate(ctx, pack.Request{
		Product:        *product,
		Platforms:      platforms,
		BrandVoice:     brand,
		PublishMode:    req.PublishMode,
		ConversionGoal: req.ConversionGoal,
		FocusAngle:     req.FocusAngle,
	})
	if err != nil {
		return nil, &StageError{Stage: StagePack, Err: err}
	}

	var brandProfileID *string
	if req.UseBrandVoice {
		brandProfileID = req.BrandProfileID
	}

	item := models.GenerateHistoryItem{
		ID:             uuid.NewString(),
		CreatedAt:      p.now().UTC(),
		ProductText:    strings.TrimSpace(req.Text),
		ProductURL:     strings.TrimSpace(req.URL),
		Platforms:      platformIDs(generated),
		UseBrandVoice:  req.UseBrandVoice,
		BrandProfileID: brandProfileID,
		PublishMode:    models.ParsePublishMode(string(req.PublishMode)),
		ConversionGoal: models.ParseConversionGoal(string(req.ConversionGoal)),
		FocusAngle:     strings.TrimSpace(req.FocusAngle),
		Pack:           *generated,
	}

	if p.history != nil {
		p.history.Append(ctx, item)
	}
	p.log.Info().Str("id", item.ID).Str("product", product.Name).Msg("generation recorded")
	return &item, nil
}

func platformIDs(sp *models.SellingPack) []models.PlatformID {
	ids := make([]models.PlatformID, 0, len(sp.Platforms))
	for _, pc := range sp.Platforms {
		ids = append(ids, pc.PlatformID)
	}
	return ids
}
