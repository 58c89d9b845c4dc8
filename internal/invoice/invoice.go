package invoice

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("invoice not found")

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// DiscountType selects how a discount value is applied to the subtotal.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// LineItem is one billable entry. Amount is the stored extended amount and is
// never recomputed from Quantity and Rate.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Invoice is the read-only record consumed by the renderers.
type Invoice struct {
	ID             uuid.UUID
	Number         string
	IssueDate      *time.Time
	DueDate        time.Time
	Amount         decimal.Decimal
	Currency       string
	Description    string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Status         Status
	LineItems      []LineItem
	TaxRate        *decimal.Decimal
	Discount       *Discount
	PaymentLinkURL string
	Terms          string
}

const defaultItemDescription = "Services"

// Items returns the explicit line items, or a single item carrying the
// invoice description and total amount when the record has none.
func (inv *Invoice) Items() []LineItem {
	if len(inv.LineItems) > 0 {
		return inv.LineItems
	}

	desc := strings.TrimSpace(inv.Description)
	if desc == "" {
		desc = defaultItemDescription
	}

	return []LineItem{{
		Description: desc,
		Quantity:    decimal.NewFromInt(1),
		Rate:        inv.Amount,
		Amount:      inv.Amount,
	}}
}

// DisplayNumber is the human invoice number, or the first 8 characters of the ID.
func (inv *Invoice) DisplayNumber() string {
	if n := strings.TrimSpace(inv.Number); n != "" {
		return n
	}

	id := inv.ID.String()
	if utf8.RuneCountInString(id) > 8 {
		return id[:8]
	}

	return id
}

// FileName is the download name of the rendered document.
func (inv *Invoice) FileName() string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '"', '*', '?', '<', '>', '|':
			return '_'
		}

		if r < 0x20 {
			return '_'
		}

		return r
	}, inv.DisplayNumber())

	return "invoice-" + strings.ReplaceAll(safe, " ", "_") + ".pdf"
}
