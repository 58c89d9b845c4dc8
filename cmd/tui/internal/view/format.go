package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/payflow/internal/render"
)

const (
	fetchTimeout  = 10 * time.Second
	renderTimeout = time.Minute
)

// FormatDate formats a time.Time into YYYY-MM-DD, or "-" when unset.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}

	return t.Format(time.DateOnly)
}

// FetchCtx returns a context with a standard timeout for data source reads.
func FetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}

// SaveDocument writes doc into dir, creating it if needed, and returns the path.
func SaveDocument(dir string, doc *render.Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, doc.Name)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", doc.Name, err)
	}

	return path, nil
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render(s)
}

// renderFields holds form bindings. It lives behind a pointer because the
// models are copied on every Update.
type renderFields struct {
	strategy render.Strategy
	dir      string
}

func newRenderFields(dir string) *renderFields {
	return &renderFields{strategy: render.StrategyDraw, dir: dir}
}

func (f *renderFields) strategyField() huh.Field {
	return huh.NewSelect[render.Strategy]().
		Key("strategy").
		Title("Strategy").
		Options(
			huh.NewOption("Direct draw (vector, selectable text)", render.StrategyDraw),
			huh.NewOption("Snapshot (matches the on-screen preview)", render.StrategySnapshot),
		).
		Value(&f.strategy)
}

func (f *renderFields) dirField() huh.Field {
	return huh.NewInput().
		Key("dir").
		Title("Output Directory").
		Description("Directory will be created if it doesn't exist").
		Placeholder("./invoices").
		Value(&f.dir).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("output directory cannot be empty")
			}
			return nil
		})
}
