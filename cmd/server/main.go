package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docchat/internal/api"
	"github.com/dgallion1/docchat/internal/config"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/llm"
	"github.com/dgallion1/docchat/internal/session"
	"github.com/dgallion1/docchat/internal/tagger"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotEnv(); err != nil {
		log.Error("load .env", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	gemini, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.LLMTimeout, log)
	if err != nil {
		log.Error("create gemini client", "error", err)
		os.Exit(1)
	}
	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.MaxUploadBytes, cfg.FetchRatePerSec)

	// Initialize sessions.
	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	driver := session.NewDriver(gemini, session.Options{
		Chunking: cfg.Chunking(),
		Tagger:   tagger.New(cfg.HiddenSentinel, cfg.TagMode, cfg.ExposeFirstChunk),
		Policy:   cfg.DocumentVisibility,
		Compat:   cfg.SentinelCompat,
	}, log)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, driver, fetcher, log, cfg).
		WithLLMStats(gemini.Model(), gemini.Stats)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // long documents are sent chunk by chunk within one request
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		cancel()
		fetcher.Close()
	}()

	log.Info("starting docchat",
		"port", cfg.Port,
		"model", cfg.GeminiModel,
		"tag_mode", cfg.TagMode,
		"visibility", cfg.DocumentVisibility,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
