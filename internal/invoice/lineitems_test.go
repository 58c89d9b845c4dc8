package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

func TestParseLineItems(t *testing.T) {
	t.Run("EmptyInputs", func(t *testing.T) {
		for _, raw := range []string{"", "  ", "null", "[]"} {
			items, err := invoice.ParseLineItems(raw)
			require.NoError(t, err)
			assert.Nil(t, items, raw)
		}
	})

	t.Run("NumbersAndStrings", func(t *testing.T) {
		items, err := invoice.ParseLineItems(`[
			{"description": " Consulting ", "quantity": 2, "rate": "75.50", "amount": 151},
			{"description": "Setup", "unit_price": 20, "amount": "20.00"}
		]`)
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "Consulting", items[0].Description)
		assert.Equal(t, "2", items[0].Quantity.String())
		assert.Equal(t, "75.5", items[0].Rate.String())
		assert.Equal(t, "151", items[0].Amount.String())

		assert.Equal(t, "1", items[1].Quantity.String())
		assert.Equal(t, "20", items[1].Rate.String())
	})

	t.Run("MissingAmount", func(t *testing.T) {
		_, err := invoice.ParseLineItems(`[{"description": "x", "rate": 1}]`)
		assert.ErrorContains(t, err, "missing amount")
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := invoice.ParseLineItems(`{"description": "x"}`)
		assert.Error(t, err)
	})
}
