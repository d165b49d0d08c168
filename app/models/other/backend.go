package other

import "github.com/shopspring/decimal"

// BackendResponse is the envelope every marketplace endpoint answers with.
type BackendResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type BackendAddOn struct {
	AddOnID string          `json:"add_on_id"`
	Title   string          `json:"title"`
	Price   decimal.Decimal `json:"price"`
	Qty     int             `json:"qty"`
}

type BackendCartItem struct {
	ProductVariantID     string          `json:"product_variant_id"`
	ProductID            string          `json:"product_id"`
	Name                 string          `json:"name"`
	Qty                  int             `json:"qty"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	TotalAllowedQuantity int             `json:"total_allowed_quantity"`
	Price                decimal.Decimal `json:"price"`
	SpecialPrice         decimal.Decimal `json:"special_price"`
	Stock                int             `json:"stock"`
	StartTime            string          `json:"start_time"`
	EndTime              string          `json:"end_time"`
	AddOns               []BackendAddOn  `json:"product_add_ons"`
}

type CartResponse struct {
	BackendResponse
	Data          []BackendCartItem `json:"data"`
	SubTotal      decimal.Decimal   `json:"sub_total"`
	TaxPercentage decimal.Decimal   `json:"tax_percentage"`
	TaxAmount     decimal.Decimal   `json:"tax_amount"`
}

type DeliveryChargeResponse struct {
	BackendResponse
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	IsFreeDelivery bool            `json:"is_free_delivery"`
}

type PromoCodeResponse struct {
	BackendResponse
	Data []struct {
		PromoCode     string          `json:"promo_code"`
		FinalDiscount decimal.Decimal `json:"final_discount"`
	} `json:"data"`
}

type PlaceOrderResponse struct {
	BackendResponse
	OrderID string `json:"order_id"`
}

type SettingsResponse struct {
	BackendResponse
	Data struct {
		Currency string `json:"currency"`
		UserData []struct {
			ID       string          `json:"id"`
			Username string          `json:"username"`
			Mobile   string          `json:"mobile"`
			Email    string          `json:"email"`
			Balance  decimal.Decimal `json:"balance"`
		} `json:"user_data"`
	} `json:"data"`
}
