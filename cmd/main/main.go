package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "net/http/pprof"

	"pricescout/internal/ai"
	"pricescout/internal/config"
	"pricescout/internal/pricing"
	serverhttp "pricescout/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	var dis ai.Disambiguator
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), ai.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: time.Duration(cfg.LLMTimeoutSec) * time.Second,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini client")
		}
		defer client.Close()
		dis = client
		logger.Info().Str("model", cfg.GeminiModel).Msg("gemini disambiguation enabled")
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, matching will use fallback only")
	}

	store := pricing.NewMemStore()
	engine := pricing.NewEngine(store, logger)

	r := serverhttp.NewRouter(cfg, dis, engine, store, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
