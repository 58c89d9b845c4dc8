package backend_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/payflow/internal/auth"
	"github.com/MrJamesThe3rd/payflow/internal/backend"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

const invoiceJSON = `{
	"id": "%s",
	"customer_id": "0f8fad5b-d9cb-469f-a165-70867728950e",
	"customer_name": "Jane Doe",
	"customer_email": "jane@example.com",
	"invoice_number": "INV-003",
	"amount": "150.00",
	"currency": "EUR",
	"issue_date": "2024-05-01",
	"due_date": "2024-05-31",
	"description": "Consulting",
	"terms": null,
	"notes": null,
	"line_items": "[{\"description\":\"Consulting\",\"quantity\":1,\"rate\":150,\"amount\":150}]",
	"invoice_wide_tax_rate": "10",
	"discount_type": "fixed",
	"discount_value": 5,
	"status": "sent",
	"stripe_payment_link_url": "https://buy.stripe.com/test",
	"created_at": "2024-05-01T10:00:00Z",
	"updated_at": "2024-05-01T10:00:00Z"
}`

func newServer(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return backend.NewClient(srv.URL+"/routes/", "service-token", 5*time.Second)
}

func TestClient_GetInvoice(t *testing.T) {
	id := uuid.New()

	var gotAuth, gotPath string

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sprintf(invoiceJSON, id)))
	})

	ctx := auth.WithPrincipal(context.Background(), auth.Principal{UserID: "u1", Token: "user-token"})

	inv, err := c.GetInvoice(ctx, "u1", id)
	require.NoError(t, err)

	assert.Equal(t, "Bearer user-token", gotAuth)
	assert.Equal(t, "/routes/invoices/"+id.String(), gotPath)

	assert.Equal(t, id, inv.ID)
	assert.Equal(t, "INV-003", inv.Number)
	assert.Equal(t, "150", inv.Amount.String())
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, invoice.StatusSent, inv.Status)
	require.NotNil(t, inv.IssueDate)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *inv.IssueDate)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), inv.DueDate)
	require.NotNil(t, inv.TaxRate)
	assert.Equal(t, "10", inv.TaxRate.String())
	require.NotNil(t, inv.Discount)
	assert.Equal(t, invoice.DiscountFixed, inv.Discount.Type)
	assert.Len(t, inv.LineItems, 1)
	assert.Equal(t, "https://buy.stripe.com/test", inv.PaymentLinkURL)
}

func TestClient_GetInvoice_Errors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"detail":"Invoice not found"}`, http.StatusNotFound)
		})

		_, err := c.GetInvoice(context.Background(), "u1", uuid.New())
		assert.ErrorIs(t, err, invoice.ErrNotFound)
	})

	t.Run("ServerError", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := c.GetInvoice(context.Background(), "u1", uuid.New())
		require.Error(t, err)
		assert.NotErrorIs(t, err, invoice.ErrNotFound)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("FallsBackToServiceToken", func(t *testing.T) {
		var gotAuth string

		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNotFound)
		})

		_, _ = c.GetInvoice(context.Background(), "u1", uuid.New())
		assert.Equal(t, "Bearer service-token", gotAuth)
	})
}

func TestClient_ListInvoices(t *testing.T) {
	status := invoice.StatusSent

	var gotQuery string

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery

		var inv map[string]any
		require.NoError(t, json.Unmarshal([]byte(sprintf(invoiceJSON, uuid.New())), &inv))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"invoices": []any{inv, inv},
			"total":    2,
			"page":     1,
			"limit":    20,
			"has_next": false,
		})
	})

	invs, err := c.ListInvoices(context.Background(), "u1", invoice.ListFilter{Status: &status, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, invs, 2)
	assert.Equal(t, "limit=20&status=sent", gotQuery)
}

func TestClient_GetBranding(t *testing.T) {
	t.Run("Settings", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/routes/branding-settings", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"id": "b1", "account_id": "a1",
				"company_name": "Acme",
				"primary_color": "#112233", "secondary_color": "#EF4444", "accent_color": "#10B981",
				"logo_url": null, "business_email": "hi@acme.test", "business_phone": null,
				"created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"
			}`))
		})

		p, err := c.GetBranding(context.Background(), "u1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Acme", p.CompanyName)
		assert.Equal(t, "#112233", p.PrimaryColor)
		assert.Equal(t, "hi@acme.test", p.BusinessEmail)
		assert.Empty(t, p.LogoURL)
	})

	t.Run("NullBody", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`null`))
		})

		p, err := c.GetBranding(context.Background(), "u1")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("NotFound", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		p, err := c.GetBranding(context.Background(), "u1")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func sprintf(format string, id uuid.UUID) string {
	return fmt.Sprintf(format, id)
}
