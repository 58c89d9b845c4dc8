package render

import (
	"strings"
	"unicode/utf8"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

// Content rules shared by every strategy.
const (
	DateLayout   = "January 02, 2006"
	DefaultTerms = "Payment is due within 30 days of invoice date. Thank you for your business!"

	maxLinkLen   = 60
	linkKeepLen  = 57
	linkEllipsis = "..."
)

var (
	StatusGreen = branding.RGB{R: 16, G: 185, B: 129}
	StatusAmber = branding.RGB{R: 245, G: 158, B: 11}
	StatusRed   = branding.RGB{R: 239, G: 68, B: 68}
)

// StatusColor is green for paid, amber for sent or pending, red otherwise.
func StatusColor(s invoice.Status) branding.RGB {
	switch strings.ToLower(string(s)) {
	case string(invoice.StatusPaid):
		return StatusGreen
	case string(invoice.StatusSent), "pending":
		return StatusAmber
	}

	return StatusRed
}

// Terms picks the invoice's own terms, then the branding boilerplate, then DefaultTerms.
func Terms(inv *invoice.Invoice, p *branding.Profile) string {
	for _, t := range []string{inv.Terms, p.PaymentTerms} {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}

	return DefaultTerms
}

// TruncateLink shortens links longer than 60 characters to 57 plus "...".
func TruncateLink(link string) string {
	link = strings.TrimSpace(link)
	if utf8.RuneCountInString(link) <= maxLinkLen {
		return link
	}

	return string([]rune(link)[:linkKeepLen]) + linkEllipsis
}
