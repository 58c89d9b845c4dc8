package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/payflow/internal/app"
	"github.com/MrJamesThe3rd/payflow/internal/auth"
	"github.com/MrJamesThe3rd/payflow/internal/config"
	payflowHttp "github.com/MrJamesThe3rd/payflow/internal/http"
	documentHandler "github.com/MrJamesThe3rd/payflow/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/payflow/internal/http/export"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to release resources", "error", err)
		}
	}()

	var (
		documentH = documentHandler.NewHandler(a.Render, a.Invoices, a.Branding, a.Money)
		exportH   = exportHandler.NewHandler(a.Export)
	)

	opts := payflowHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins}

	if cfg.Auth.Secret != "" {
		opts.Authenticate = auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer).Middleware
	} else {
		slog.Warn("AUTH_JWT_SECRET not set, API is unauthenticated")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      payflowHttp.New(opts, documentH, exportH),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.Render.SnapshotTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "source", cfg.DataSource, "rasterizer", cfg.Render.Rasterizer)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
