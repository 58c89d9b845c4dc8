package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

// Item links an exported invoice to its rendered file. Err is set when this
// invoice could not be rendered and the batch carried on without it.
type Item struct {
	Invoice  *invoice.Invoice
	FilePath string
	Err      error
}

type InvoiceLister interface {
	List(ctx context.Context, userID string, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

type BrandingSource interface {
	Get(ctx context.Context, userID string) (*branding.Profile, error)
}

type Renderer interface {
	Render(ctx context.Context, inv *invoice.Invoice, profile *branding.Profile, strategy render.Strategy) (*render.Document, error)
}

// Service renders batches of invoices to a directory or a zip archive.
type Service struct {
	invoices InvoiceLister
	branding BrandingSource
	renderer Renderer
	money    *money.Formatter
}

func NewService(invoices InvoiceLister, brand BrandingSource, renderer Renderer, f *money.Formatter) *Service {
	return &Service{
		invoices: invoices,
		branding: brand,
		renderer: renderer,
		money:    f,
	}
}

// Export renders every invoice matching the filter into outputDir.
func (s *Service) Export(ctx context.Context, userID string, filter invoice.ListFilter, strategy render.Strategy, outputDir string) ([]Item, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return s.each(ctx, userID, filter, strategy, func(doc *render.Document) (string, error) {
		path := filepath.Join(outputDir, doc.Name)

		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return "", fmt.Errorf("writing file: %w", err)
		}

		return path, nil
	})
}

// WriteArchive renders every invoice matching the filter into a zip written to w.
func (s *Service) WriteArchive(ctx context.Context, w io.Writer, userID string, filter invoice.ListFilter, strategy render.Strategy) ([]Item, error) {
	zw := zip.NewWriter(w)

	items, err := s.each(ctx, userID, filter, strategy, func(doc *render.Document) (string, error) {
		f, err := zw.Create(doc.Name)
		if err != nil {
			return "", fmt.Errorf("adding %s to archive: %w", doc.Name, err)
		}

		if _, err := f.Write(doc.Data); err != nil {
			return "", fmt.Errorf("writing %s to archive: %w", doc.Name, err)
		}

		return doc.Name, nil
	})
	if err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return items, nil
}

type sink func(doc *render.Document) (string, error)

func (s *Service) each(ctx context.Context, userID string, filter invoice.ListFilter, strategy render.Strategy, put sink) ([]Item, error) {
	invs, err := s.invoices.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	profile, err := s.branding.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching branding: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrInputIncomplete, err)
	}

	items := make([]Item, 0, len(invs))
	seen := make(map[string]bool, len(invs))

	for _, inv := range invs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := Item{Invoice: inv}

		doc, err := s.renderer.Render(ctx, inv, profile, strategy)
		if err != nil {
			slog.Error("failed to render invoice", "invoice_id", inv.ID, "strategy", strategy, "error", err)

			item.Err = err
			items = append(items, item)

			continue
		}

		doc.Name = uniqueName(seen, doc.Name)

		path, err := put(doc)
		if err != nil {
			return nil, err
		}

		item.FilePath = path
		items = append(items, item)
	}

	return items, nil
}

// uniqueName returns name, or the first of "invoice-A_1.pdf", "invoice-A_2.pdf"
// ... not yet emitted, and records the result.
func uniqueName(seen map[string]bool, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 1; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}

	seen[candidate] = true

	return candidate
}

// GenerateSummary creates a plain-text listing of the exported items.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		inv := item.Invoice

		issued := "-"
		if inv.IssueDate != nil {
			issued = inv.IssueDate.Format("2006-01-02")
		}

		total := invoice.ComputeTotals(inv).Total

		file := filepath.Base(item.FilePath)
		if item.Err != nil {
			file = "FAILED: " + render.UserMessage(item.Err)
		}

		customer := inv.CustomerName
		if customer == "" {
			customer = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s\n",
			inv.DisplayNumber(), issued, customer, s.money.Format(total, inv.Currency), file)
	}

	return sb.String()
}

var ErrBatchFailed = errors.New("one or more invoices failed to render")

// Err collapses per-item failures into one error, or nil.
func Err(items []Item) error {
	var errs []error

	for _, item := range items {
		if item.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.Invoice.DisplayNumber(), item.Err))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrBatchFailed, errors.Join(errs...))
}
