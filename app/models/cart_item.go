package models

import (
	"github.com/shopspring/decimal"
)

// AlwaysAvailable is the HH:MM:SS value used on both ends of a window that never closes.
const AlwaysAvailable = "00:00:00"

type AddOn struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

type CartItem struct {
	VariantID            string          `json:"product_variant_id"`
	ProductID            string          `json:"product_id"`
	Name                 string          `json:"name"`
	Qty                  int             `json:"qty"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	TotalAllowedQuantity int             `json:"total_allowed_quantity"`
	Price                decimal.Decimal `json:"price"`
	SpecialPrice         decimal.Decimal `json:"special_price"`
	AddOns               []AddOn         `json:"add_ons"`
	Stock                int             `json:"stock"`
	StartTime            string          `json:"start_time"`
	EndTime              string          `json:"end_time"`
}

// MinQty never drops below one.
func (ci CartItem) MinQty() int {
	if ci.MinimumOrderQuantity < 1 {
		return 1
	}
	return ci.MinimumOrderQuantity
}

// MaxQty returns 0 when the item has no upper bound.
func (ci CartItem) MaxQty() int {
	if ci.TotalAllowedQuantity < 0 {
		return 0
	}
	return ci.TotalAllowedQuantity
}

func (ci CartItem) IsAlwaysAvailable() bool {
	if ci.StartTime == "" && ci.EndTime == "" {
		return true
	}
	return ci.StartTime == AlwaysAvailable && ci.EndTime == AlwaysAvailable
}
