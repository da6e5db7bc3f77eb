package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/sellboost-agent/internal/a2a"
	"github.com/BerylCAtieno/sellboost-agent/internal/api"
	"github.com/BerylCAtieno/sellboost-agent/internal/config"
	"github.com/BerylCAtieno/sellboost-agent/internal/history"
	"github.com/BerylCAtieno/sellboost-agent/internal/llm"
	"github.com/BerylCAtieno/sellboost-agent/internal/logger"
	"github.com/BerylCAtieno/sellboost-agent/internal/pack"
	"github.com/BerylCAtieno/sellboost-agent/internal/pagefetch"
	"github.com/BerylCAtieno/sellboost-agent/internal/pipeline"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
	"github.com/BerylCAtieno/sellboost-agent/internal/profiler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("error", true)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Gemini client
	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey,
		llm.WithModel(cfg.GeminiModel),
		llm.WithMaxOutputTokens(cfg.MaxOutputTokens),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}
	defer geminiClient.Close()

	table := platforms.Default()
	if cfg.PlatformsFile != "" {
		if table, err = platforms.Load(cfg.PlatformsFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.PlatformsFile).Msg("failed to load platform table")
		}
	}

	storage, closeStorage, err := openStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("failed to open history storage")
	}
	defer closeStorage()

	store := history.New(storage, history.WithLogger(log.With().Str("component", "history").Logger()))
	store.Load(ctx)

	reducer := pagefetch.NewReducer(
		pagefetch.WithTimeout(cfg.FetchTimeout),
		pagefetch.WithUserAgent(cfg.FetchUserAgent),
		pagefetch.WithLogger(log.With().Str("component", "pagefetch").Logger()),
	)
	prof := profiler.New(geminiClient, reducer,
		profiler.WithTemperature(cfg.AnalysisTemperature),
		profiler.WithLogger(log.With().Str("component", "profiler").Logger()),
	)
	orch := pack.New(geminiClient, table,
		pack.WithTemperature(cfg.PackTemperature),
		pack.WithMaxConcurrency(cfg.PackMaxConcurrency),
		pack.WithLogger(log.With().Str("component", "pack").Logger()),
	)
	runner := pipeline.New(prof, orch, store, pipeline.WithLogger(log))

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log))

	api.NewHandler(prof, orch, runner, store, table,
		api.WithDevelopment(cfg.IsDevelopment()),
		api.WithLogger(log.With().Str("component", "api").Logger()),
	).Register(router)

	a2aHandler := a2a.NewA2AHandler(runner, cfg.IsDevelopment(), log.With().Str("component", "a2a").Logger())
	router.GET("/.well-known/agent.json", a2aHandler.ServeAgentCard)
	router.POST("/a2a/sellboost", a2aHandler.HandleSellingPack)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.AppEnv).
			Str("model", cfg.GeminiModel).
			Str("history", cfg.HistoryBackend).
			Msg("SellBoost agent listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func openStorage(cfg *config.Config) (history.Storage, func(), error) {
	switch cfg.HistoryBackend {
	case config.BackendSQLite:
		s, err := history.NewSQLiteStorage(cfg.HistoryPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.BackendMemory:
		return history.NewMemoryStorage(nil), func() {}, nil
	default:
		return history.NewFileStorage(cfg.HistoryPath), func() {}, nil
	}
}

