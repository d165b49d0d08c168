package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

type MoneyFormatter struct {
	ac *accounting.Accounting
}

func NewMoneyFormatter(symbol string) *MoneyFormatter {
	if symbol == "" {
		symbol = "$"
	}
	return &MoneyFormatter{
		ac: &accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ",", Decimal: "."},
	}
}

func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	return f.ac.FormatMoneyDecimal(amount)
}

// Money accepts the numeric shapes the handlers receive from forms and JSON.
func (f *MoneyFormatter) Money(amount interface{}) string {
	var dec decimal.Decimal
	switch v := amount.(type) {
	case decimal.Decimal:
		dec = v
	case float64:
		dec = decimal.NewFromFloat(v)
	case int:
		dec = decimal.NewFromInt(int64(v))
	case int64:
		dec = decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return f.Format(decimal.Zero)
		}
		dec = parsed
	default:
		return f.Format(decimal.Zero)
	}
	return f.Format(dec)
}
