package calc

import "github.com/shopspring/decimal"

func CalculateTax(subTotal, taxPercent decimal.Decimal) decimal.Decimal {
	if taxPercent.IsZero() {
		return decimal.Zero
	}
	return subTotal.Mul(taxPercent).Div(decimal.NewFromInt(100)).Round(2)
}
