package models

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "cod"
	PaymentMethodWallet   PaymentMethod = "wallet"
	PaymentMethodMidtrans PaymentMethod = "midtrans"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodWallet, PaymentMethodMidtrans:
		return true
	}
	return false
}

type PlaceOrderRequest struct {
	Mobile         string
	VariantIDs     []string
	Quantities     []int
	SubTotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	PromoCode      string
	PromoDiscount  decimal.Decimal
	DeliveryCharge decimal.Decimal
	DeliveryTip    decimal.Decimal
	FinalTotal     decimal.Decimal
	PaymentMethod  PaymentMethod
	AddressID      string
	OrderNote      string
	IsSelfPickup   bool
	TransactionID  string
}

type PlacedOrder struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// PendingPayment tracks an online payment that was opened but not yet turned into an order.
type PendingPayment struct {
	OrderCode   string          `json:"order_code"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
	Amount      decimal.Decimal `json:"amount"`
}
