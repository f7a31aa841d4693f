package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"glrfill/internal/config"
	"glrfill/internal/extract"
	"glrfill/internal/filler"
	"glrfill/internal/handler"
	"glrfill/internal/llm"
	_ "glrfill/internal/llm/gemini"
	_ "glrfill/internal/llm/openrouter"
	"glrfill/internal/logging"
	"glrfill/internal/router"
	"glrfill/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize pipeline components
	gateway, err := llm.NewGateway(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize llm gateway: %w", err)
	}
	if !gateway.Configured() {
		logger.Warn("no llm api key configured; fill requests will fail until one is set",
			"provider", cfg.LLM.Provider)
	}

	fillSvc := service.NewFillService(
		extract.NewExtractor(logger),
		gateway,
		filler.New(),
		&cfg.Upload,
		logger,
	)

	// Initialize handlers
	fillH := handler.NewFillHandler(fillSvc, cfg.Upload.MaxFileSizeBytes(), cfg.Upload.MaxRequestSizeBytes())
	exportH := handler.NewExportHandler()
	healthH := handler.NewHealthHandler(gateway)

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, fillH, exportH, healthH)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
