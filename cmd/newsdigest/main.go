package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"newsdigest/internal/config"
	"newsdigest/internal/digest"
	"newsdigest/internal/feed"
	"newsdigest/internal/handler"
	"newsdigest/internal/llm"
	"newsdigest/internal/logger"
	"newsdigest/internal/region"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(cfg.Debug)

	catalog, err := region.Load(cfg.RegionsPath)
	if err != nil {
		log.Fatalf("regions: %v", err)
	}

	providers, closeProviders := buildProviders(cfg)
	defer closeProviders()
	if len(providers) == 0 {
		logger.Warn("no LLM providers configured, summaries will be unavailable")
	}

	limiter := llm.NewLimiter(cfg.MaxLLMRequests, cfg.MaxLLMTotal)
	router := llm.NewRouter(providers, limiter, cfg.LLMTimeout)

	fetcher := feed.NewFetcher(cfg.HTTPTimeout, cfg.MaxNewsCount)
	expander := digest.NewExpander(router)
	summarizer := digest.NewSummarizer(router, cfg.MaxSummaryTitles)
	digests := digest.NewService(catalog, fetcher, expander, summarizer)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	handler.New(catalog, digests, router).Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "providers", router.Providers())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// buildProviders assembles the fallback chain in priority order. A pinned
// LLM_MODE keeps only that provider; auto mode includes every provider
// that has credentials.
func buildProviders(cfg *config.Config) ([]llm.Provider, func()) {
	var providers []llm.Provider
	closeFn := func() {}

	wantLocal := cfg.LLMMode == config.ModeAuto || cfg.LLMMode == config.ModeLocal
	wantOpenAI := cfg.LLMMode == config.ModeAuto || cfg.LLMMode == config.ModeOpenAI
	wantGemini := cfg.LLMMode == config.ModeAuto || cfg.LLMMode == config.ModeGemini

	if wantLocal && cfg.LocalEnabled() {
		providers = append(providers, llm.NewLocalProvider(cfg.LocalURL, cfg.LocalModel))
	}
	if wantOpenAI && cfg.OpenAIEnabled() {
		providers = append(providers, llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel))
	}
	if wantGemini && cfg.GeminiEnabled() {
		gemini, err := llm.NewGeminiProvider(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("gemini client init failed, skipping provider", "error", err)
		} else {
			providers = append(providers, gemini)
			closeFn = gemini.Close
		}
	}

	return providers, closeFn
}
