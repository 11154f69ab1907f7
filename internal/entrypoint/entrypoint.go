package entrypoint

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
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/config"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM or ctx cancellation, then
// shuts it down within the configured timeout.
func Serve(ctx context.Context, router *gin.Engine, cfg *config.Config, logger logrus.FieldLogger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	case serveErr = <-errCh:
		logger.WithError(serveErr).Error("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, fmt.Errorf("server shutdown: %w", err))
	}

	// Background work stops after the listener; in-flight deletes may still enqueue.
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	logger.Info("server exiting")
	return serveErr
}

// Run wires the application and serves the API until shutdown.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	app.Logger.WithField("version", version).Info("starting lexicon")

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.StartBackground(bgCtx); err != nil {
		cancel()
		_ = app.Close(context.Background())
		return err
	}

	onShutdown := func(shutdownCtx context.Context) {
		if err := app.Close(shutdownCtx); err != nil {
			app.Logger.WithError(err).Error("shutdown cleanup failed")
		}
	}

	return Serve(ctx, app.Router(version), cfg, app.Logger, onShutdown)
}
