package models

import "github.com/shopspring/decimal"

type PromoCode struct {
	Code          string          `json:"code"`
	FinalDiscount decimal.Decimal `json:"final_discount"`
}
