package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

// Strategy selects how a document is produced.
type Strategy string

const (
	StrategyDraw     Strategy = "draw"
	StrategySnapshot Strategy = "snapshot"
)

// ParseStrategy maps a query value to a Strategy. Empty means draw.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyDraw:
		return StrategyDraw, nil
	case StrategySnapshot:
		return StrategySnapshot, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

const contentTypePDF = "application/pdf"

// Document is a finished PDF ready to be downloaded or previewed.
type Document struct {
	Name     string
	Data     []byte
	Strategy Strategy
}

func (d *Document) ContentType() string { return contentTypePDF }

// Renderer turns an invoice and its branding into a PDF. Implementations may
// assume the profile passed Validate.
type Renderer interface {
	Render(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile) (*Document, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile) (*Document, error)

func (f RendererFunc) Render(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile) (*Document, error) {
	return f(ctx, inv, profile)
}

type InvoiceSource interface {
	Get(ctx context.Context, userID string, id uuid.UUID) (*invoice.Invoice, error)
}

type BrandingSource interface {
	Get(ctx context.Context, userID string) (*branding.Profile, error)
}

type Service struct {
	invoices  InvoiceSource
	branding  BrandingSource
	renderers map[Strategy]Renderer
}

func NewService(invoices InvoiceSource, brand BrandingSource, renderers map[Strategy]Renderer) *Service {
	return &Service{invoices: invoices, branding: brand, renderers: renderers}
}

// Strategies lists the strategies this service has a renderer for.
func (s *Service) Strategies() []Strategy {
	var out []Strategy

	for _, st := range []Strategy{StrategyDraw, StrategySnapshot} {
		if _, ok := s.renderers[st]; ok {
			out = append(out, st)
		}
	}

	return out
}

// RenderByID fetches the invoice and the caller's branding, then renders.
func (s *Service) RenderByID(ctx context.Context, userID string, id uuid.UUID, strategy Strategy) (*Document, error) {
	inv, err := s.invoices.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("fetching invoice: %w", err)
	}

	profile, err := s.branding.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching branding: %w", err)
	}

	return s.Render(ctx, inv, profile, strategy)
}

// Render validates the inputs and runs the strategy's renderer. Any failure
// after validation is reported as a *RenderError.
func (s *Service) Render(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile, strategy Strategy) (*Document, error) {
	r, ok := s.renderers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	if inv == nil {
		return nil, fmt.Errorf("%w: no invoice", ErrInputIncomplete)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputIncomplete, err)
	}

	doc, err := guard(ctx, strategy, r, inv, profile)
	if err != nil {
		return nil, err
	}

	if doc.Name == "" {
		doc.Name = inv.FileName()
	}

	doc.Strategy = strategy

	return doc, nil
}
