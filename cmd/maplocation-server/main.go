// Command maplocation-server serves the geocoding routes, the browser runtime
// and a demo form rendered by the binder.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-maplocation/internal/config"
	"github.com/goliatone/go-maplocation/internal/providers"
)

func main() {
	var (
		configDir     = flag.String("config", ".", "directory holding config.yaml")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	cfg, err := config.LoadFrom(*configDir, "./config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	gin.SetMode(cfg.Server.GinMode)

	geocoder, err := providers.New(cfg.Geocoder, logger)
	if err != nil {
		logger.Error("geocoder setup failed", "error", err)
		os.Exit(1)
	}

	app, err := NewApp(cfg, logger, geocoder)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddr(),
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", "addr", httpServer.Addr, "provider", geocoder.Name())

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		logger.Error("server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
}
