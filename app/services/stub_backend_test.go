package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/shopspring/decimal"
)

var errBackendDown = errors.New("connection refused")

// stubBackend keeps a server-side cart and records calls.
type stubBackend struct {
	mu sync.Mutex

	cart           models.Cart
	deliveryCharge decimal.Decimal
	freeDelivery   bool
	promoDiscount  decimal.Decimal
	settings       models.UserSettings

	manageErr   error
	getCartErr  error
	deliveryErr error
	promoErr    error
	placeErr    error
	settingsErr error

	manageCalls   []int
	deliveryCalls int
	settingsCalls int
	placed        []models.PlaceOrderRequest
}

func (b *stubBackend) GetCart(context.Context) (*models.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getCartErr != nil {
		return nil, b.getCartErr
	}
	cart := b.cart
	cart.CartItems = append([]models.CartItem(nil), b.cart.CartItems...)
	return &cart, nil
}

func (b *stubBackend) ManageCart(_ context.Context, variantID string, qty int, _ []models.AddOn) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.manageCalls = append(b.manageCalls, qty)
	if b.manageErr != nil {
		return b.manageErr
	}
	for i := range b.cart.CartItems {
		if b.cart.CartItems[i].VariantID == variantID {
			b.cart.CartItems[i].Qty = qty
			return nil
		}
	}
	b.cart.CartItems = append(b.cart.CartItems, models.CartItem{
		VariantID: variantID, Name: variantID, Qty: qty, Price: decimal.NewFromInt(10), Stock: 10,
		StartTime: models.AlwaysAvailable, EndTime: models.AlwaysAvailable,
	})
	return nil
}

func (b *stubBackend) RemoveFromCart(_ context.Context, variantID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.cart.CartItems[:0]
	for _, it := range b.cart.CartItems {
		if it.VariantID != variantID {
			items = append(items, it)
		}
	}
	b.cart.CartItems = items
	return nil
}

func (b *stubBackend) GetDeliveryCharges(context.Context, string, decimal.Decimal) (decimal.Decimal, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliveryCalls++
	if b.deliveryErr != nil {
		return decimal.Zero, false, b.deliveryErr
	}
	return b.deliveryCharge, b.freeDelivery, nil
}

func (b *stubBackend) ValidatePromoCode(_ context.Context, code string, _ decimal.Decimal) (*models.PromoCode, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.promoErr != nil {
		return nil, b.promoErr
	}
	return &models.PromoCode{Code: code, FinalDiscount: b.promoDiscount}, nil
}

func (b *stubBackend) PlaceOrder(_ context.Context, req models.PlaceOrderRequest) (*models.PlacedOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.placeErr != nil {
		return nil, b.placeErr
	}
	b.placed = append(b.placed, req)
	return &models.PlacedOrder{OrderID: "ORD-1", Message: "Order Placed Successfully"}, nil
}

func (b *stubBackend) GetSettings(context.Context) (*models.UserSettings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settingsCalls++
	if b.settingsErr != nil {
		return nil, b.settingsErr
	}
	s := b.settings
	return &s, nil
}

func (b *stubBackend) calls() (manage []int, settings int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.manageCalls...), b.settingsCalls
}

func fixedClock(clock string) func() time.Time {
	return func() time.Time { return at(clock) }
}

func lunchCart() models.Cart {
	return models.Cart{
		CartItems: []models.CartItem{
			{VariantID: "v1", Name: "Nasi Goreng", Qty: 2, MinimumOrderQuantity: 1, TotalAllowedQuantity: 5, Price: decimal.NewFromInt(40), Stock: 8, StartTime: models.AlwaysAvailable, EndTime: models.AlwaysAvailable},
			{VariantID: "v2", Name: "Es Teh", Qty: 1, Price: decimal.NewFromInt(20), Stock: 3, StartTime: "10:00:00", EndTime: "14:00:00"},
		},
		SubTotal:   decimal.NewFromInt(100),
		TaxPercent: decimal.NewFromInt(10),
		TaxAmount:  decimal.NewFromInt(10),
	}
}
