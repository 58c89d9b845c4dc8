// Package app wires the services shared by the API server and the TUI.
package app

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/payflow/internal/backend"
	"github.com/MrJamesThe3rd/payflow/internal/branding"
	brandingStore "github.com/MrJamesThe3rd/payflow/internal/branding/store"
	"github.com/MrJamesThe3rd/payflow/internal/config"
	"github.com/MrJamesThe3rd/payflow/internal/database"
	"github.com/MrJamesThe3rd/payflow/internal/export"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/payflow/internal/invoice/store"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
	"github.com/MrJamesThe3rd/payflow/internal/render/draw"
	"github.com/MrJamesThe3rd/payflow/internal/render/snapshot"
)

type App struct {
	Money     *money.Formatter
	Invoices  *invoice.Service
	Branding  *branding.Service
	Renderers map[render.Strategy]render.Renderer
	Render    *render.Service
	Export    *export.Service

	closers []func() error
}

// Open builds every service from cfg. Close releases the database and the
// browser when they were opened.
func Open(cfg *config.Config) (*App, error) {
	a := &App{}

	f, err := money.NewFormatter(cfg.Render.Locale)
	if err != nil {
		return nil, fmt.Errorf("creating money formatter: %w", err)
	}

	a.Money = f

	invRepo, brRepo, err := a.openSource(cfg)
	if err != nil {
		return nil, err
	}

	surface, err := a.openSurface(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Invoices = invoice.NewService(invRepo)
	a.Branding = branding.NewService(brRepo)
	a.Renderers = map[render.Strategy]render.Renderer{
		render.StrategyDraw:     draw.NewEngine(f),
		render.StrategySnapshot: snapshot.NewRenderer(surface, f, snapshot.WithTimeout(cfg.Render.SnapshotTimeout)),
	}
	a.Render = render.NewService(a.Invoices, a.Branding, a.Renderers)
	a.Export = export.NewService(a.Invoices, a.Branding, a.Render, f)

	return a, nil
}

func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	a.closers = nil

	return errors.Join(errs...)
}

func (a *App) openSource(cfg *config.Config) (invoice.Repository, branding.Repository, error) {
	if cfg.DataSource == config.SourceDB {
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		a.closers = append(a.closers, db.Close)

		return invoiceStore.New(db), brandingStore.New(db), nil
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout)

	return client, client, nil
}

func (a *App) openSurface(cfg *config.Config) (snapshot.Surface, error) {
	if cfg.Render.Rasterizer == config.RasterizerChrome {
		s := snapshot.NewChromeSurface(snapshot.ChromeOptions{
			ExecPath:  cfg.Render.ChromePath,
			NoSandbox: cfg.Render.ChromeNoSandbox,
		})

		a.closers = append(a.closers, func() error {
			s.Close()
			return nil
		})

		return s, nil
	}

	s, err := snapshot.NewCanvasSurface()
	if err != nil {
		return nil, fmt.Errorf("creating canvas surface: %w", err)
	}

	return s, nil
}
