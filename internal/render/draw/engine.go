// Package draw lays out an invoice as vector PDF drawing primitives.
package draw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

// Clock supplies "today" for records without an issue date and the PDF
// creation timestamp.
type Clock func() time.Time

// ErrPageOverflow reports content that runs past the bottom of the single page.
var ErrPageOverflow = errors.New("content does not fit on one page")

// overflowSlack absorbs float error in the footer arithmetic.
const overflowSlack = 0.01

type Engine struct {
	money *money.Formatter
	clock Clock
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func NewEngine(f *money.Formatter, opts ...Option) *Engine {
	e := &Engine{money: f, clock: time.Now}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Draw runs every layout step against c and returns the final cursor.
func (e *Engine) Draw(c Canvas, inv *invoice.Invoice, profile *branding.Profile) float64 {
	l := newLayout(inv, profile, e.money, e.clock())

	var y float64

	for _, s := range steps {
		y = s.draw(c, l, y)
	}

	return y
}

func (e *Engine) Render(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile) (*render.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, render.Fail(render.StrategyDraw, render.StageLayout, err)
	}

	c := newPDFCanvas(e.clock())

	bottom := e.Draw(c, inv, profile)

	if _, pageH := c.PageSize(); bottom > pageH+overflowSlack {
		return nil, render.Fail(render.StrategyDraw, render.StageLayout,
			fmt.Errorf("%w: ends at %.1fmm of %.0fmm", ErrPageOverflow, bottom, pageH))
	}

	data, err := c.bytes()
	if err != nil {
		return nil, render.Fail(render.StrategyDraw, render.StageEncode, err)
	}

	return &render.Document{
		Name:     inv.FileName(),
		Data:     data,
		Strategy: render.StrategyDraw,
	}, nil
}
