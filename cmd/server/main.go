package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pie/internal/config"
	"pie/internal/handler"
	"pie/internal/logging"
	openai "pie/internal/parser/openai"
	"pie/internal/pdftext"
	"pie/internal/router"
	"pie/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	// Load .env file when present; the process environment always wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.New(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize PDF text extraction and inference
	extractor, err := pdftext.NewExtractor(&cfg.PDF)
	if err != nil {
		return fmt.Errorf("failed to initialize PDF extractor: %w", err)
	}
	inference := openai.NewParser(&cfg.Inference)
	if cfg.Inference.APIKey == "" {
		log.Warn("no inference API key configured; extraction requests will fail until one is set")
	}

	// Initialize services
	extractionSvc := service.NewExtractionService(extractor, inference, cfg.Inference.DetectImageMIME, log)
	paymentSvc := service.NewPaymentService()

	// Initialize handlers
	extractH := handler.NewExtractHandler(extractionSvc, cfg.Upload.MaxBytes())
	paymentH := handler.NewPaymentHandler(paymentSvc)
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(cfg, log, extractH, paymentH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":          cfg.Server.Port,
			"base_path":     cfg.Server.BasePath,
			"pdf_extractor": cfg.PDF.Extractor,
			"model":         cfg.Inference.Model,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
