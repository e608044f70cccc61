package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/deepfake-api/internal/api"
	"github.com/Harshitk-cp/deepfake-api/internal/buildconfig"
	"github.com/Harshitk-cp/deepfake-api/internal/config"
	"github.com/Harshitk-cp/deepfake-api/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	_ = config.Load()

	logger, err := newLogger(config.LogLevel())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	uploads, err := store.NewTempStore(config.UploadDir())
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	app := api.NewApp(uploads, logger, api.Options{
		MaxUploadBytes:     config.MaxUploadBytes(),
		CORSAllowedOrigins: config.CORSAllowedOrigins(),
		RateLimitRPS:       config.RateLimitRPS(),
		RateLimitBurst:     config.RateLimitBurst(),
	})
	app.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("upload_dir", uploads.Dir()),
			zap.String("version", buildconfig.Version()),
			zap.String("engine", buildconfig.EngineVersion))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	app.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
