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

	"github.com/joho/godotenv"

	"github.com/wolfman30/reluguard-site/internal/app/bootstrap"
	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	envErr := godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to read .env", "error", envErr)
	}
	logger.Info("starting reluguard site server",
		"env", cfg.Env,
		"port", cfg.Port,
		"generate_provider", cfg.GenerateProvider,
		"notify_provider", cfg.NotifyProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	site, err := bootstrap.BuildSite(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build site", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := site.Close(); err != nil {
			logger.Warn("failed to close site resources", "error", err)
		}
	}()

	srv := newServer(cfg, site.Handler)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// newServer applies the listener timeouts. Generation can take a while, so the
// write timeout leaves room for UPSTREAM_TIMEOUT on top of the default.
func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	writeTimeout := 120 * time.Second
	if cfg.UpstreamTimeout > 0 {
		writeTimeout = cfg.UpstreamTimeout + 15*time.Second
	}
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
