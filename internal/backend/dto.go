package backend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

// InvoiceResponse is the backend's invoice payload.
type InvoiceResponse struct {
	ID                   uuid.UUID           `json:"id"`
	CustomerID           *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName         string              `json:"customer_name"`
	CustomerEmail        string              `json:"customer_email"`
	CustomerPhone        string              `json:"customer_phone,omitempty"`
	InvoiceNumber        *string             `json:"invoice_number"`
	Amount               decimal.Decimal     `json:"amount"`
	Currency             string              `json:"currency"`
	IssueDate            *string             `json:"issue_date"`
	DueDate              *string             `json:"due_date"`
	Description          *string             `json:"description"`
	Terms                *string             `json:"terms"`
	Notes                *string             `json:"notes"`
	LineItems            *string             `json:"line_items"`
	InvoiceWideTaxRate   decimal.NullDecimal `json:"invoice_wide_tax_rate"`
	DiscountType         *string             `json:"discount_type"`
	DiscountValue        decimal.NullDecimal `json:"discount_value"`
	Status               string              `json:"status"`
	StripePaymentLinkURL *string             `json:"stripe_payment_link_url"`
}

type InvoicesListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	HasNext  bool              `json:"has_next"`
}

// BrandingSettingsResponse is the backend's branding payload.
type BrandingSettingsResponse struct {
	CompanyName    *string `json:"company_name"`
	PrimaryColor   string  `json:"primary_color"`
	SecondaryColor string  `json:"secondary_color"`
	AccentColor    string  `json:"accent_color"`
	LogoURL        *string `json:"logo_url"`
	BusinessEmail  *string `json:"business_email"`
	BusinessPhone  *string `json:"business_phone"`
	Website        *string `json:"website,omitempty"`
	PaymentTerms   *string `json:"payment_terms,omitempty"`
	EmailSignature *string `json:"email_signature,omitempty"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func parseDate(p *string) (*time.Time, error) {
	if p == nil || *p == "" {
		return nil, nil
	}

	// Dates arrive as calendar dates; tolerate full timestamps too.
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, *p); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}

	return nil, fmt.Errorf("parsing date %q", *p)
}

// ToInvoice converts the payload into the renderer's invoice record.
func (r *InvoiceResponse) ToInvoice() (*invoice.Invoice, error) {
	inv := &invoice.Invoice{
		ID:             r.ID,
		Number:         str(r.InvoiceNumber),
		Amount:         r.Amount,
		Currency:       r.Currency,
		Description:    str(r.Description),
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		CustomerPhone:  r.CustomerPhone,
		Status:         invoice.Status(r.Status),
		PaymentLinkURL: str(r.StripePaymentLinkURL),
		Terms:          str(r.Terms),
	}

	issued, err := parseDate(r.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("issue date: %w", err)
	}

	inv.IssueDate = issued

	due, err := parseDate(r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due date: %w", err)
	}

	if due != nil {
		inv.DueDate = *due
	}

	if r.InvoiceWideTaxRate.Valid {
		inv.TaxRate = new(r.InvoiceWideTaxRate.Decimal)
	}

	if r.DiscountType != nil && r.DiscountValue.Valid {
		inv.Discount = &invoice.Discount{
			Type:  invoice.DiscountType(*r.DiscountType),
			Value: r.DiscountValue.Decimal,
		}
	}

	items, err := invoice.ParseLineItems(str(r.LineItems))
	if err != nil {
		return nil, err
	}

	inv.LineItems = items

	return inv, nil
}

func (r *BrandingSettingsResponse) ToProfile() *branding.Profile {
	return &branding.Profile{
		CompanyName:    str(r.CompanyName),
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		AccentColor:    r.AccentColor,
		LogoURL:        str(r.LogoURL),
		BusinessEmail:  str(r.BusinessEmail),
		BusinessPhone:  str(r.BusinessPhone),
		Website:        str(r.Website),
		PaymentTerms:   str(r.PaymentTerms),
		EmailSignature: str(r.EmailSignature),
	}
}
