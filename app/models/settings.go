package models

import "github.com/shopspring/decimal"

type UserSettings struct {
	UserID         string          `json:"user_id"`
	Username       string          `json:"username"`
	Mobile         string          `json:"mobile"`
	Email          string          `json:"email"`
	WalletBalance  decimal.Decimal `json:"balance"`
	CurrencySymbol string          `json:"currency"`
}
