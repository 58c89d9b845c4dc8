// Package snapshot renders the on-screen invoice presentation to a raster and
// wraps it in a single-page PDF.
package snapshot

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var documentTemplate = template.Must(
	template.New("invoice.html").
		Funcs(template.FuncMap{"odd": func(i int) bool { return i%2 == 1 }}).
		ParseFS(templateFS, "templates/invoice.html"),
)

// DocumentID is the element id of the rasterized invoice area.
const DocumentID = "invoice-document"

type Item struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

// Presentation is the invoice as shown on screen, with every value already
// formatted for display.
type Presentation struct {
	DocumentID string

	Company       string
	CompanyEmail  string
	CompanyPhone  string
	Website       string
	LogoURL       string
	Signature     string
	Primary       branding.RGB
	Secondary     branding.RGB
	Accent        branding.RGB
	AccentTint    branding.RGB
	Number        string
	IssueDate     string
	DueDate       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Items         []Item

	Subtotal     string
	TaxLabel     string
	Tax          string
	ShowTax      bool
	Discount     string
	ShowDiscount bool
	Total        string

	Status      string
	StatusColor branding.RGB
	PaymentLink string
	LinkText    string
	Terms       string
}

// NewPresentation formats inv and p for display. now stands in for a missing issue date.
func NewPresentation(inv *invoice.Invoice, p *branding.Profile, f *money.Formatter, now time.Time) *Presentation {
	totals := invoice.ComputeTotals(inv)

	issued := now
	if inv.IssueDate != nil {
		issued = *inv.IssueDate
	}

	due := inv.DueDate
	if due.IsZero() {
		due = invoice.DefaultDueDate(issued)
	}

	pr := &Presentation{
		DocumentID:    DocumentID,
		Company:       strings.TrimSpace(p.CompanyName),
		CompanyEmail:  p.BusinessEmail,
		CompanyPhone:  p.BusinessPhone,
		Website:       p.Website,
		LogoURL:       p.LogoURL,
		Signature:     p.EmailSignature,
		Primary:       p.Primary(),
		Secondary:     p.Secondary(),
		Accent:        p.Accent(),
		AccentTint:    p.Accent().Tint(0.9),
		Number:        inv.DisplayNumber(),
		IssueDate:     issued.Format(render.DateLayout),
		DueDate:       due.Format(render.DateLayout),
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		CustomerPhone: inv.CustomerPhone,
		Subtotal:      f.Format(totals.Subtotal, inv.Currency),
		TaxLabel:      "Tax (" + totals.TaxRate.String() + "%)",
		Tax:           f.Format(totals.Tax, inv.Currency),
		ShowTax:       totals.HasTax(),
		Discount:      "-" + f.Format(totals.Discount, inv.Currency),
		ShowDiscount:  totals.HasDiscount(),
		Total:         f.Format(totals.Total, inv.Currency),
		Status:        strings.ToUpper(string(inv.Status)),
		StatusColor:   render.StatusColor(inv.Status),
		PaymentLink:   strings.TrimSpace(inv.PaymentLinkURL),
		LinkText:      render.TruncateLink(inv.PaymentLinkURL),
		Terms:         render.Terms(inv, p),
	}

	if pr.CustomerName == "" {
		pr.CustomerName = "Customer"
	}

	for _, item := range inv.Items() {
		pr.Items = append(pr.Items, Item{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Rate:        f.Format(invoice.Round(item.Rate), inv.Currency),
			Amount:      f.Format(invoice.Round(item.Amount), inv.Currency),
		})
	}

	return pr
}

// RenderHTML writes the standalone HTML document for p.
func RenderHTML(w io.Writer, p *Presentation) error {
	if err := documentTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("executing invoice template: %w", err)
	}

	return nil
}

// HTML is RenderHTML into a string.
func HTML(p *Presentation) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, p); err != nil {
		return "", err
	}

	return buf.String(), nil
}
