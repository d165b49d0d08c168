package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFormatter(t *testing.T) {
	f := NewMoneyFormatter("$")

	assert.Equal(t, "$1,234.50", f.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", f.Money("not-a-number"))
	assert.Equal(t, "$12.00", f.Money(12))
	assert.Equal(t, "$7.25", f.Money("7.25"))
}
