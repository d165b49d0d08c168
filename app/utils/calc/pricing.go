package calc

import (
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/shopspring/decimal"
)

type PricingInput struct {
	SubTotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	PromoActive    bool
	PromoDiscount  decimal.Decimal
	Tip            decimal.Decimal
	DeliveryMode   models.DeliveryMode
	DeliveryCharge decimal.Decimal
	IsFreeDelivery bool
}

// CalculatePayable does not clamp; a promo larger than the order yields a negative result.
func CalculatePayable(in PricingInput) decimal.Decimal {
	base := in.SubTotal.Add(in.TaxAmount)
	if in.PromoActive {
		base = base.Sub(in.PromoDiscount)
	}
	if in.DeliveryMode == models.DeliveryModeDelivery {
		base = base.Add(in.Tip)
		if !in.IsFreeDelivery {
			base = base.Add(in.DeliveryCharge)
		}
	}
	return base
}

// TotalPayable is the amount shown to the customer and charged on order placement.
func TotalPayable(payable decimal.Decimal) decimal.Decimal {
	if payable.IsNegative() {
		return decimal.Zero
	}
	return payable
}

// LineTotal is unit price plus every add-on, all multiplied by the item quantity.
func LineTotal(item models.CartItem) decimal.Decimal {
	qty := decimal.NewFromInt(int64(item.Qty))
	unit := UnitPrice(item.Price, item.SpecialPrice)
	for _, addOn := range item.AddOns {
		unit = unit.Add(addOn.Price)
	}
	return unit.Mul(qty)
}

func SubTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total
}

// OrderTotal is what the backend prices delivery and promo codes against.
func OrderTotal(subTotal, taxAmount, promoDiscount decimal.Decimal) decimal.Decimal {
	return subTotal.Add(taxAmount).Sub(promoDiscount)
}
