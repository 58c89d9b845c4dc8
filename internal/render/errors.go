package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

var (
	ErrInputIncomplete = errors.New("input incomplete")
	ErrUnknownStrategy = errors.New("unknown render strategy")
)

// Stages a render can fail in.
const (
	StageLayout    = "layout"
	StageMount     = "mount"
	StageReady     = "ready"
	StageRasterize = "rasterize"
	StageEncode    = "encode"
	StageRender    = "render"
)

// RenderError is a failure while producing a document. Its detail is for logs,
// never for end users.
type RenderError struct {
	Strategy Strategy
	Stage    string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s render failed at %s: %v", e.Strategy, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Fail builds a RenderError for a strategy stage.
func Fail(strategy Strategy, stage string, err error) error {
	return &RenderError{Strategy: strategy, Stage: stage, Err: err}
}

const (
	MessageIncomplete = "Please complete your branding settings (company name) before generating invoices"
	MessageFailed     = "Failed to generate invoice PDF"
)

// UserMessage is the text shown to end users for a render error.
func UserMessage(err error) string {
	if errors.Is(err, ErrInputIncomplete) {
		return MessageIncomplete
	}

	return MessageFailed
}

// guard runs a renderer, converting panics and plain errors into RenderErrors
// so callers never see a partial document.
func guard(ctx context.Context, strategy Strategy, r Renderer, inv *invoice.Invoice, profile *branding.Profile) (doc *Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc = nil
			err = Fail(strategy, StageRender, fmt.Errorf("panic: %v", p))
		}
	}()

	doc, err = r.Render(ctx, inv, profile)
	if err != nil {
		var rerr *RenderError
		if errors.As(err, &rerr) {
			return nil, err
		}

		return nil, Fail(strategy, StageRender, err)
	}

	if doc == nil || len(doc.Data) == 0 {
		return nil, Fail(strategy, StageEncode, errors.New("empty document"))
	}

	return doc, nil
}
