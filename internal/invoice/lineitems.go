package invoice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// lineItemDTO mirrors the serialized collection stored by the backend.
// decimal.Decimal accepts both JSON numbers and quoted strings.
type lineItemDTO struct {
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount"`
}

// ParseLineItems decodes the serialized line-item collection.
// An empty string, "null" or an empty array yields no items.
func ParseLineItems(raw string) ([]LineItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var dtos []lineItemDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, fmt.Errorf("decoding line items: %w", err)
	}

	if len(dtos) == 0 {
		return nil, nil
	}

	items := make([]LineItem, 0, len(dtos))

	for i, d := range dtos {
		item := LineItem{
			Description: strings.TrimSpace(d.Description),
			Quantity:    decimal.NewFromInt(1),
		}

		if d.Quantity != nil {
			item.Quantity = *d.Quantity
		}

		switch {
		case d.Rate != nil:
			item.Rate = *d.Rate
		case d.UnitPrice != nil:
			item.Rate = *d.UnitPrice
		}

		if d.Amount == nil {
			return nil, fmt.Errorf("line item %d: missing amount", i)
		}

		item.Amount = *d.Amount

		items = append(items, item)
	}

	return items, nil
}
