package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/receipt-extractor/internal/common"
	"github.com/joseph-ayodele/receipt-extractor/internal/export"
	"github.com/joseph-ayodele/receipt-extractor/internal/extract"
	"github.com/joseph-ayodele/receipt-extractor/internal/llm"
	"github.com/joseph-ayodele/receipt-extractor/internal/llm/gemini"
	"github.com/joseph-ayodele/receipt-extractor/internal/pipeline"
	"github.com/joseph-ayodele/receipt-extractor/internal/repository"
	"github.com/joseph-ayodele/receipt-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.DB.Path, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	artifacts, err := repository.OpenArtifactCache(cfg.DB.ArtifactPath)
	if err != nil {
		logger.Error("open artifact cache", "error", err)
		os.Exit(1)
	}
	defer artifacts.Close()

	receipts := repository.NewReceiptRepository(db)

	// The model stage is optional: without an API key the daemon still
	// serves heuristic + structured-field parses.
	var generator llm.TextGenerator
	if cfg.LLM.APIKey != "" {
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			logger.Error("create gemini client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		generator = client
		logger.Info("model stage enabled", "model", cfg.LLM.Model)
	} else {
		logger.Info("model stage disabled, running heuristics only")
	}

	extractor := extract.NewHTTPExtractor(cfg.OCR.BaseURL, cfg.OCR.APIKey, cfg.OCR.Timeout, logger)
	pl := pipeline.New(logger, pipeline.Config{}, generator)
	exporter := export.NewService(receipts, logger)
	handler := server.NewReceiptHandler(extractor, pl, receipts, artifacts, exporter, logger)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
