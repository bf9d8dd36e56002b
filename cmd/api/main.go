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

	"github.com/matchbook-app/matchbook/internal/app"
	"github.com/matchbook-app/matchbook/internal/config"
	"github.com/matchbook-app/matchbook/internal/observability"
	"github.com/matchbook-app/matchbook/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	logging.SetDefault(logging.NewJSON(cfg.LogLevel))

	shutdownUptrace, err := observability.InitUptrace(cfg, logging.Default())
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	srv, cleanup, err := app.NewHTTPServer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	cleanup()

	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Warn("stop pprof server", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	_ = logging.Default().Sync()

	logger.Info("http server stopped")
}

func slogLevel(level logging.Level) slog.Level {
	switch level {
	case logging.LevelDebug:
		return slog.LevelDebug
	case logging.LevelWarn:
		return slog.LevelWarn
	case logging.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
