// Package api exposes the analysis, pack and history operations over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/pack"
	"github.com/BerylCAtieno/sellboost-agent/internal/pipeline"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
	"github.com/BerylCAtieno/sellboost-agent/internal/profiler"
	"github.com/BerylCAtieno/sellboost-agent/internal/safeerr"
)

const (
	analyzeFallback  = "产品分析失败，请稍后重试"
	packFallback     = "带货内容包生成失败，请稍后重试"
	badBodyMessage   = "请求格式错误，请提交有效的 JSON"
	noProductMessage = "请先完成产品分析"
	notFoundMessage  = "请检查记录 ID：未找到该历史记录"
)

type Analyzer interface {
	AnalyzeProduct(ctx context.Context, req profiler.AnalyzeRequest) (*models.AnalyzedProduct, error)
}

type PackGenerator interface {
	Generate(ctx context.Context, req pack.Request) (*models.SellingPack, error)
}

type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*models.GenerateHistoryItem, error)
}

// History is the read/delete side of the history store.
type History interface {
	Items() []models.GenerateHistoryItem
	Get(id string) (models.GenerateHistoryItem, bool)
	Remove(ctx context.Context, id string) bool
}

type Handler struct {
	analyzer    Analyzer
	packs       PackGenerator
	runner      Runner
	history     History
	table       *platforms.Table
	development bool
	log         zerolog.Logger
}

type Option func(*Handler)

// WithDevelopment lets raw error text through to clients.
func WithDevelopment(dev bool) Option {
	return func(h *Handler) { h.development = dev }
}

func WithLogger(log zerolog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

func NewHandler(analyzer Analyzer, packs PackGenerator, runner Runner, history History, table *platforms.Table, opts ...Option) *Handler {
	h := &Handler{
		analyzer: analyzer,
		packs:    packs,
		runner:   runner,
		history:  history,
		table:    table,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts every route under r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/analyze-product", h.AnalyzeProduct)
	api.POST("/generate-selling-pack", h.GenerateSellingPack)
	api.POST("/generate", h.Generate)
	api.GET("/history", h.ListHistory)
	api.GET("/history/:id", h.GetHistory)
	api.DELETE("/history/:id", h.DeleteHistory)
	api.GET("/platforms", h.ListPlatforms)
}

type analyzeRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (h *Handler) AnalyzeProduct(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	product, err := h.analyzer.AnalyzeProduct(c.Request.Context(), profiler.AnalyzeRequest{Text: req.Text, URL: req.URL})
	if err != nil {
		h.fail(c, err, analyzeFallback)
		return
	}
	c.JSON(http.StatusOK, product)
}

type sellingPackRequest struct {
	Product        *models.AnalyzedProduct `json:"product"`
	Platforms      []models.PlatformID     `json:"platforms"`
	BrandVoice     *models.BrandVoice      `json:"brandVoice"`
	PublishMode    models.PublishMode      `json:"publishMode"`
	ConversionGoal models.ConversionGoal   `json:"conversionGoal"`
	FocusAngle     string                  `json:"focusAngle"`
}

func (h *Handler) GenerateSellingPack(c *gin.Context) {
	var req sellingPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	if req.Product == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noProductMessage})
		return
	}

	sp, err := h.packs.Generate(c.Request.Context(), pack.Request{
		Product:        *req.Product,
		Platforms:      req.Platforms,
		BrandVoice:     req.BrandVoice,
		PublishMode:    req.PublishMode,
		ConversionGoal: req.ConversionGoal,
		FocusAngle:     req.FocusAngle,
	})
	if err != nil {
		h.fail(c, err, packFallback)
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *Handler) Generate(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	item, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		fallback := packFallback
		if stage, _ := pipeline.FailedStage(err); stage == pipeline.StageAnalysis {
			fallback = analyzeFallback
		}
		h.fail(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) ListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.Items())
}

func (h *Handler) GetHistory(c *gin.Context) {
	item, ok := h.history.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	if !h.history.Remove(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
		return
	}
	c.Status(http.StatusNoContent)
}

type platformView struct {
	ID   models.PlatformID `json:"id"`
	Name string            `json:"name"`
	Icon string            `json:"icon"`
}

func (h *Handler) ListPlatforms(c *gin.Context) {
	rules := h.table.All()
	out := make([]platformView, 0, len(rules))
	for _, r := range rules {
		out = append(out, platformView{ID: r.ID, Name: r.Name, Icon: r.Icon})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) badBody(c *gin.Context, err error) {
	h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected request body")
	c.JSON(http.StatusBadRequest, gin.H{"error": badBodyMessage})
}

// fail maps err to a status and a client-safe message.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	if safeerr.IsInput(err) {
		status = http.StatusBadRequest
	} else {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": safeerr.Message(err, fallback, h.development)})
}
