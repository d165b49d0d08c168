package models

import "github.com/shopspring/decimal"

type Cart struct {
	CartItems  []CartItem      `json:"items"`
	SubTotal   decimal.Decimal `json:"sub_total"`
	TaxPercent decimal.Decimal `json:"tax_percentage"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.CartItems) == 0
}

func (c *Cart) TotalItems() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.CartItems {
		total += item.Qty
	}
	return total
}

// Item returns a pointer into CartItems so quantity edits land in place.
func (c *Cart) Item(variantID string) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.CartItems {
		if c.CartItems[i].VariantID == variantID {
			return &c.CartItems[i]
		}
	}
	return nil
}
