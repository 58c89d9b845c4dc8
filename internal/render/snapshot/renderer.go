package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

const (
	DefaultScale   = 2.0
	DefaultTimeout = 30 * time.Second
)

type Renderer struct {
	surface Surface
	money   *money.Formatter
	clock   func() time.Time
	scale   float64
	timeout time.Duration
}

type Option func(*Renderer)

func WithClock(c func() time.Time) Option {
	return func(r *Renderer) { r.clock = c }
}

func WithScale(scale float64) Option {
	return func(r *Renderer) { r.scale = scale }
}

// WithTimeout bounds a whole render including teardown. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.timeout = d }
}

func NewRenderer(s Surface, f *money.Formatter, opts ...Option) *Renderer {
	r := &Renderer{
		surface: s,
		money:   f,
		clock:   time.Now,
		scale:   DefaultScale,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Presentation builds the view model this renderer would capture.
func (r *Renderer) Presentation(inv *invoice.Invoice, profile *branding.Profile) *Presentation {
	return NewPresentation(inv, profile, r.money, r.clock())
}

func (r *Renderer) Render(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile) (*render.Document, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	p := r.Presentation(inv, profile)

	host, err := r.surface.Open(ctx)
	if err != nil {
		return nil, render.Fail(render.StrategySnapshot, render.StageMount, fmt.Errorf("opening host: %w", err))
	}
	defer teardown(host)

	if err := host.Mount(ctx, p); err != nil {
		return nil, render.Fail(render.StrategySnapshot, render.StageMount, err)
	}

	if err := host.Ready(ctx); err != nil {
		return nil, render.Fail(render.StrategySnapshot, render.StageReady, err)
	}

	img, err := host.Rasterize(ctx, r.scale)
	if err != nil {
		return nil, render.Fail(render.StrategySnapshot, render.StageRasterize, err)
	}

	data, err := EmbedImage(img, r.clock())
	if err != nil {
		return nil, render.Fail(render.StrategySnapshot, render.StageEncode, err)
	}

	return &render.Document{
		Name:     inv.FileName(),
		Data:     data,
		Strategy: render.StrategySnapshot,
	}, nil
}

// teardown releases the host. Its failures are only logged so they never mask
// the error of the render itself.
func teardown(h Host) {
	err := errors.Join(h.Unmount(), h.Close())
	if err != nil {
		slog.Warn("failed to tear down snapshot host", "error", err)
	}
}
