package calc

import "github.com/shopspring/decimal"

// UnitPrice picks the special price when it is set and actually lower than the list price.
func UnitPrice(price, specialPrice decimal.Decimal) decimal.Decimal {
	if specialPrice.IsPositive() && specialPrice.LessThan(price) {
		return specialPrice
	}
	return price
}

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
}
