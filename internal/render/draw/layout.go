package draw

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

var (
	white     = branding.RGB{R: 255, G: 255, B: 255}
	ink       = branding.RGB{R: 31, G: 41, B: 55}
	muted     = branding.RGB{R: 107, G: 114, B: 128}
	border    = branding.RGB{R: 209, G: 213, B: 219}
	panelFill = branding.RGB{R: 249, G: 250, B: 251}
)

type row struct {
	description string
	quantity    string
	rate        string
	amount      string
}

// layout is everything the steps print, computed once before drawing.
type layout struct {
	company      string
	companyEmail string
	companyPhone string
	website      string
	hasLogo      bool

	primary branding.RGB
	accent  branding.RGB

	number    string
	issueDate string
	dueDate   string

	customerName  string
	customerEmail string
	customerPhone string

	rows []row

	subtotal    string
	taxLabel    string
	tax         string
	hasTax      bool
	discount    string
	hasDiscount bool
	total       string

	status      string
	statusColor branding.RGB
	paymentLink string
	terms       string
}

func newLayout(inv *invoice.Invoice, p *branding.Profile, f *money.Formatter, now time.Time) *layout {
	totals := invoice.ComputeTotals(inv)

	issued := now
	if inv.IssueDate != nil {
		issued = *inv.IssueDate
	}

	due := inv.DueDate
	if due.IsZero() {
		due = invoice.DefaultDueDate(issued)
	}

	l := &layout{
		company:       strings.TrimSpace(p.CompanyName),
		companyEmail:  p.BusinessEmail,
		companyPhone:  p.BusinessPhone,
		website:       p.Website,
		hasLogo:       p.LogoURL != "",
		primary:       p.Primary(),
		accent:        p.Accent(),
		number:        inv.DisplayNumber(),
		issueDate:     issued.Format(render.DateLayout),
		dueDate:       due.Format(render.DateLayout),
		customerName:  inv.CustomerName,
		customerEmail: inv.CustomerEmail,
		customerPhone: inv.CustomerPhone,
		subtotal:      f.Format(totals.Subtotal, inv.Currency),
		taxLabel:      "Tax (" + totals.TaxRate.String() + "%)",
		tax:           f.Format(totals.Tax, inv.Currency),
		hasTax:        totals.HasTax(),
		discount:      "-" + f.Format(totals.Discount, inv.Currency),
		hasDiscount:   totals.HasDiscount(),
		total:         f.Format(totals.Total, inv.Currency),
		status:        strings.ToUpper(string(inv.Status)),
		statusColor:   render.StatusColor(inv.Status),
		paymentLink:   render.TruncateLink(inv.PaymentLinkURL),
		terms:         render.Terms(inv, p),
	}

	if l.customerName == "" {
		l.customerName = "Customer"
	}

	for _, item := range inv.Items() {
		l.rows = append(l.rows, row{
			description: item.Description,
			quantity:    item.Quantity.String(),
			rate:        f.Format(invoice.Round(item.Rate), inv.Currency),
			amount:      f.Format(invoice.Round(item.Amount), inv.Currency),
		})
	}

	return l
}

// wrap splits s into lines no wider than width using the canvas font metrics.
// A single word wider than width is kept whole on its own line.
func wrap(c Canvas, s string, width float64) []string {
	var lines []string

	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := words[0]

		for _, w := range words[1:] {
			if c.TextWidth(line+" "+w) > width {
				lines = append(lines, line)
				line = w

				continue
			}

			line += " " + w
		}

		lines = append(lines, line)
	}

	return lines
}
