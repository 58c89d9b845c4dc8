package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	type testCase struct {
		name         string
		inv          *invoice.Invoice
		wantSubtotal string
		wantTax      string
		wantDiscount string
		wantTotal    string
	}

	tests := []testCase{
		{
			name: "TaxAndPercentageDiscountCancelOut",
			inv: &invoice.Invoice{
				LineItems: []invoice.LineItem{
					{Description: "Design", Quantity: dec("2"), Rate: dec("50"), Amount: dec("100")},
					{Description: "Hosting", Quantity: dec("1"), Rate: dec("50"), Amount: dec("50")},
				},
				TaxRate:  new(dec("10")),
				Discount: &invoice.Discount{Type: invoice.DiscountPercentage, Value: dec("10")},
			},
			wantSubtotal: "150.00",
			wantTax:      "15.00",
			wantDiscount: "15.00",
			wantTotal:    "150.00",
		},
		{
			name: "FixedDiscount",
			inv: &invoice.Invoice{
				LineItems: []invoice.LineItem{{Amount: dec("80")}},
				Discount:  &invoice.Discount{Type: invoice.DiscountFixed, Value: dec("12.5")},
			},
			wantSubtotal: "80.00",
			wantTax:      "0.00",
			wantDiscount: "12.50",
			wantTotal:    "67.50",
		},
		{
			name:         "NoItemsUsesInvoiceAmount",
			inv:          &invoice.Invoice{Amount: dec("42.10")},
			wantSubtotal: "42.10",
			wantTax:      "0.00",
			wantDiscount: "0.00",
			wantTotal:    "42.10",
		},
		{
			name: "AmountIsNotRecomputedFromRate",
			inv: &invoice.Invoice{
				LineItems: []invoice.LineItem{{Quantity: dec("3"), Rate: dec("10"), Amount: dec("25")}},
			},
			wantSubtotal: "25.00",
			wantTax:      "0.00",
			wantDiscount: "0.00",
			wantTotal:    "25.00",
		},
		{
			name: "RoundsHalfEven",
			inv: &invoice.Invoice{
				LineItems: []invoice.LineItem{{Amount: dec("10.125")}, {Amount: dec("10.135")}},
			},
			wantSubtotal: "20.26",
			wantTax:      "0.00",
			wantDiscount: "0.00",
			wantTotal:    "20.26",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.ComputeTotals(tt.inv)

			assert.Equal(t, tt.wantSubtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTax, got.Tax.StringFixed(2))
			assert.Equal(t, tt.wantDiscount, got.Discount.StringFixed(2))
			assert.Equal(t, tt.wantTotal, got.Total.StringFixed(2))
		})
	}
}

func TestComputeTotals_Identity(t *testing.T) {
	inv := &invoice.Invoice{
		LineItems: []invoice.LineItem{{Amount: dec("19.99")}, {Amount: dec("0.01")}, {Amount: dec("333.333")}},
		TaxRate:   new(dec("7.25")),
		Discount:  &invoice.Discount{Type: invoice.DiscountPercentage, Value: dec("3.3")},
	}

	got := invoice.ComputeTotals(inv)

	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Sub(got.Discount)))
	assert.True(t, got.HasTax())
	assert.True(t, got.HasDiscount())
}
