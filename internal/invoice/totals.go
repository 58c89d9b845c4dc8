package invoice

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of fraction digits every monetary value is
// rounded to (half-even) before display and before it enters a sum.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Totals holds the computed money block of an invoice.
type Totals struct {
	Subtotal decimal.Decimal
	TaxRate  decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

func (t Totals) HasTax() bool      { return t.Tax.IsPositive() }
func (t Totals) HasDiscount() bool { return t.Discount.IsPositive() }

// Round applies the uniform money rounding policy.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyPlaces)
}

// ComputeTotals derives subtotal, tax, discount and total.
// Total always equals Subtotal + Tax - Discount on the rounded values.
func ComputeTotals(inv *Invoice) Totals {
	var t Totals

	for _, item := range inv.Items() {
		t.Subtotal = t.Subtotal.Add(Round(item.Amount))
	}

	if inv.TaxRate != nil {
		t.TaxRate = *inv.TaxRate
		t.Tax = Round(t.Subtotal.Mul(t.TaxRate).Div(hundred))
	}

	if inv.Discount != nil {
		switch inv.Discount.Type {
		case DiscountPercentage:
			t.Discount = Round(t.Subtotal.Mul(inv.Discount.Value).Div(hundred))
		default:
			t.Discount = Round(inv.Discount.Value)
		}
	}

	t.Total = t.Subtotal.Add(t.Tax).Sub(t.Discount)

	return t
}
