package invoice_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

func TestInvoice_DisplayNumber(t *testing.T) {
	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")

	assert.Equal(t, "INV-001", (&invoice.Invoice{ID: id, Number: " INV-001 "}).DisplayNumber())
	assert.Equal(t, "3f2504e0", (&invoice.Invoice{ID: id}).DisplayNumber())
}

func TestInvoice_FileName(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"INV-001", "invoice-INV-001.pdf"},
		{"2024/07 A", "invoice-2024_07_A.pdf"},
		{`a:b*c?`, "invoice-a_b_c_.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, (&invoice.Invoice{Number: tt.number}).FileName())
		})
	}
}

func TestInvoice_Items(t *testing.T) {
	inv := &invoice.Invoice{Amount: dec("99.5")}

	items := inv.Items()
	if assert.Len(t, items, 1) {
		assert.Equal(t, "Services", items[0].Description)
		assert.Equal(t, "1", items[0].Quantity.String())
		assert.True(t, items[0].Amount.Equal(dec("99.5")))
	}

	inv.Description = "Monthly retainer"
	assert.Equal(t, "Monthly retainer", inv.Items()[0].Description)
}

func TestNumbering(t *testing.T) {
	assert.Equal(t, "INV-007", invoice.FormatNumber(invoice.DefaultPrefix, 7))
	assert.Equal(t, "ACME-1234", invoice.FormatNumber("ACME", 1234))

	assert.True(t, invoice.ValidPrefix("INV_2024-A"))
	assert.False(t, invoice.ValidPrefix(""))
	assert.False(t, invoice.ValidPrefix("TOOLONGPREFIX"))
	assert.False(t, invoice.ValidPrefix("IN V"))

	assert.Equal(t, "ACME", invoice.NormalizePrefix("  acme "))

	issued := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), invoice.DefaultDueDate(issued))
}
