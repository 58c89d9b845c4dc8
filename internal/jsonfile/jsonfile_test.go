package jsonfile_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/jsonfile"
)

const (
	firstID  = "9b2f6a1e-3f0c-4a57-9d7e-1c2b3a4d5e6f"
	secondID = "2c4e6a8b-1d3f-4b5a-8c7e-9f0a1b2c3d4e"
)

const singleInvoice = `{
	"id": "` + firstID + `",
	"customer_name": "Jane Doe",
	"customer_email": "jane@example.com",
	"invoice_number": "INV-007",
	"amount": "150.00",
	"currency": "USD",
	"issue_date": "2024-05-01",
	"due_date": null,
	"description": "Design work",
	"line_items": null,
	"invoice_wide_tax_rate": "10",
	"discount_type": "percentage",
	"discount_value": "10",
	"status": "paid",
	"stripe_payment_link_url": null
}`

const invoiceList = `{
	"invoices": [
		{"id": "` + firstID + `", "amount": "10", "currency": "EUR", "status": "draft", "customer_name": "A", "customer_email": ""},
		{"id": "` + secondID + `", "amount": "20", "currency": "EUR", "status": "paid", "customer_name": "B", "customer_email": ""}
	],
	"total": 2, "page": 1, "limit": 20, "has_next": false
}`

const brandingPayload = `{
	"company_name": "Acme Studio",
	"primary_color": "#112233",
	"secondary_color": "#EF4444",
	"accent_color": "#10B981",
	"logo_url": null,
	"business_email": "billing@acme.test",
	"business_phone": null
}`

func TestDecodeInvoices_Single(t *testing.T) {
	invs, err := jsonfile.DecodeInvoices(strings.NewReader(singleInvoice))
	require.NoError(t, err)
	require.Len(t, invs, 1)

	inv := invs[0]
	assert.Equal(t, "INV-007", inv.Number)
	assert.Equal(t, invoice.StatusPaid, inv.Status)
	assert.Nil(t, inv.LineItems)
	require.NotNil(t, inv.Discount)
	assert.Equal(t, invoice.DiscountPercentage, inv.Discount.Type)

	totals := invoice.ComputeTotals(inv)
	assert.Equal(t, "150.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "15.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "150.00", totals.Total.StringFixed(2))
}

func TestDecodeInvoices_List(t *testing.T) {
	invs, err := jsonfile.DecodeInvoices(strings.NewReader(invoiceList))
	require.NoError(t, err)
	require.Len(t, invs, 2)

	assert.Equal(t, uuid.MustParse(firstID), invs[0].ID)
	assert.Equal(t, uuid.MustParse(secondID), invs[1].ID)
}

func TestDecodeInvoices_Invalid(t *testing.T) {
	_, err := jsonfile.DecodeInvoices(strings.NewReader(`{"id": `))
	assert.Error(t, err)

	_, err = jsonfile.DecodeInvoices(strings.NewReader(`{"id": "` + firstID + `", "issue_date": "yesterday", "amount": "1"}`))
	assert.ErrorContains(t, err, "issue date")
}

func TestDecodeBranding_Legacy(t *testing.T) {
	// windows-1252 "Caf\xe9 Ol\xe9" as exported by older spreadsheet tooling.
	payload := []byte(`{"company_name": "Caf` + "\xe9" + ` Ol` + "\xe9" + `", "primary_color": "", "accent_color": ""}`)

	p, err := jsonfile.DecodeBranding(bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, "Café Olé", p.CompanyName)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	src, err := jsonfile.Load(writeFile(t, "invoices.json", invoiceList), writeFile(t, "branding.json", brandingPayload))
	require.NoError(t, err)

	ctx := context.Background()

	p, err := src.GetBranding(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", p.CompanyName)
	assert.Equal(t, "billing@acme.test", p.BusinessEmail)

	inv, err := src.GetInvoice(ctx, "", uuid.MustParse(secondID))
	require.NoError(t, err)
	assert.Equal(t, "B", inv.CustomerName)

	_, err = src.GetInvoice(ctx, "", uuid.New())
	assert.ErrorIs(t, err, invoice.ErrNotFound)

	paid := invoice.StatusPaid
	invs, err := src.ListInvoices(ctx, "", invoice.ListFilter{Status: &paid})
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, "B", invs[0].CustomerName)

	invs, err = src.ListInvoices(ctx, "", invoice.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, invs, 1)

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, "A", first.CustomerName)
}

func TestLoad_WithoutBranding(t *testing.T) {
	src, err := jsonfile.Load(writeFile(t, "invoice.json", singleInvoice), "")
	require.NoError(t, err)

	p, err := src.GetBranding(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := jsonfile.Load(filepath.Join(t.TempDir(), "nope.json"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
