package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/models/other"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const formContentType = "application/x-www-form-urlencoded"

// BackendClient talks to the marketplace REST backend on behalf of one customer.
// The bearer token travels in the context, see WithBearerToken.
type BackendClient interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	ManageCart(ctx context.Context, variantID string, qty int, addOns []models.AddOn) error
	RemoveFromCart(ctx context.Context, variantID string) error
	GetDeliveryCharges(ctx context.Context, addressID string, finalTotal decimal.Decimal) (decimal.Decimal, bool, error)
	ValidatePromoCode(ctx context.Context, code string, finalTotal decimal.Decimal) (*models.PromoCode, error)
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.PlacedOrder, error)
	GetSettings(ctx context.Context) (*models.UserSettings, error)
}

// BackendError is an envelope with error=true or a non-2xx answer.
type BackendError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend %s: %s", e.Endpoint, e.Message)
}

type bearerTokenKey struct{}

func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}

type backendClient struct {
	client  *http.Client
	baseURL string
}

func NewBackendClient(baseURL string, timeout time.Duration) BackendClient {
	return &backendClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *backendClient) doRequest(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	fullURL := c.baseURL + "/" + endpoint
	log.Debug().Str("endpoint", endpoint).Msg("backend request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")
	if token := BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *backendClient) call(ctx context.Context, endpoint string, form url.Values, out any) error {
	body, err := c.doRequest(ctx, endpoint, form)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// emptyCartMessages are the get_user_cart errors that only mean there is nothing in the cart.
var emptyCartMessages = []string{"no item(s) found", "no item found", "no data found", "cart is empty"}

func isEmptyCartMessage(msg string) bool {
	msg = strings.ToLower(strings.TrimSpace(msg))
	for _, m := range emptyCartMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func (c *backendClient) GetCart(ctx context.Context) (*models.Cart, error) {
	var resp other.CartResponse
	if err := c.call(ctx, "get_user_cart", url.Values{}, &resp); err != nil {
		return nil, err
	}
	if resp.Error && len(resp.Data) == 0 && isEmptyCartMessage(resp.Message) {
		log.Debug().Str("backend_message", resp.Message).Msg("backend returned empty cart")
		return &models.Cart{SubTotal: decimal.Zero, TaxPercent: decimal.Zero, TaxAmount: decimal.Zero}, nil
	}
	if resp.Error {
		return nil, &BackendError{Endpoint: "get_user_cart", Message: resp.Message}
	}

	cart := &models.Cart{
		CartItems:  make([]models.CartItem, 0, len(resp.Data)),
		SubTotal:   resp.SubTotal,
		TaxPercent: resp.TaxPercentage,
		TaxAmount:  resp.TaxAmount,
	}
	for _, it := range resp.Data {
		item := models.CartItem{
			VariantID:            it.ProductVariantID,
			ProductID:            it.ProductID,
			Name:                 it.Name,
			Qty:                  it.Qty,
			MinimumOrderQuantity: it.MinimumOrderQuantity,
			TotalAllowedQuantity: it.TotalAllowedQuantity,
			Price:                it.Price,
			SpecialPrice:         it.SpecialPrice,
			Stock:                it.Stock,
			StartTime:            it.StartTime,
			EndTime:              it.EndTime,
		}
		for _, a := range it.AddOns {
			item.AddOns = append(item.AddOns, models.AddOn{ID: a.AddOnID, Title: a.Title, Price: a.Price, Qty: a.Qty})
		}
		cart.CartItems = append(cart.CartItems, item)
	}
	return cart, nil
}

func (c *backendClient) ManageCart(ctx context.Context, variantID string, qty int, addOns []models.AddOn) error {
	form := url.Values{}
	form.Set("product_variant_id", variantID)
	form.Set("qty", strconv.Itoa(qty))
	if len(addOns) > 0 {
		ids := make([]string, 0, len(addOns))
		qtys := make([]string, 0, len(addOns))
		for _, a := range addOns {
			ids = append(ids, a.ID)
			qtys = append(qtys, strconv.Itoa(a.Qty))
		}
		form.Set("add_on_id", strings.Join(ids, ","))
		form.Set("add_on_qty", strings.Join(qtys, ","))
	}

	var resp other.BackendResponse
	if err := c.call(ctx, "manage_cart", form, &resp); err != nil {
		return err
	}
	if resp.Error {
		return &BackendError{Endpoint: "manage_cart", Message: resp.Message}
	}
	return nil
}

func (c *backendClient) RemoveFromCart(ctx context.Context, variantID string) error {
	form := url.Values{}
	form.Set("product_variant_id", variantID)

	var resp other.BackendResponse
	if err := c.call(ctx, "remove_from_cart", form, &resp); err != nil {
		return err
	}
	if resp.Error {
		return &BackendError{Endpoint: "remove_from_cart", Message: resp.Message}
	}
	return nil
}

func (c *backendClient) GetDeliveryCharges(ctx context.Context, addressID string, finalTotal decimal.Decimal) (decimal.Decimal, bool, error) {
	form := url.Values{}
	form.Set("address_id", addressID)
	form.Set("final_total", finalTotal.StringFixed(2))

	var resp other.DeliveryChargeResponse
	if err := c.call(ctx, "get_delivery_charges", form, &resp); err != nil {
		return decimal.Zero, false, err
	}
	if resp.Error {
		return decimal.Zero, false, &BackendError{Endpoint: "get_delivery_charges", Message: resp.Message}
	}
	return resp.DeliveryCharge, resp.IsFreeDelivery, nil
}

func (c *backendClient) ValidatePromoCode(ctx context.Context, code string, finalTotal decimal.Decimal) (*models.PromoCode, error) {
	form := url.Values{}
	form.Set("promo_code", code)
	form.Set("final_total", finalTotal.StringFixed(2))

	var resp other.PromoCodeResponse
	if err := c.call(ctx, "validate_promo_code", form, &resp); err != nil {
		return nil, err
	}
	if resp.Error || len(resp.Data) == 0 {
		msg := resp.Message
		if msg == "" {
			msg = "promo code not applicable"
		}
		return nil, &BackendError{Endpoint: "validate_promo_code", Message: msg}
	}
	return &models.PromoCode{Code: code, FinalDiscount: resp.Data[0].FinalDiscount}, nil
}

func (c *backendClient) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.PlacedOrder, error) {
	variantIDs := strings.Join(req.VariantIDs, ",")
	qtys := make([]string, 0, len(req.Quantities))
	for _, q := range req.Quantities {
		qtys = append(qtys, strconv.Itoa(q))
	}

	form := url.Values{}
	form.Set("mobile", req.Mobile)
	form.Set("product_variant_id", variantIDs)
	form.Set("quantity", strings.Join(qtys, ","))
	form.Set("total", req.SubTotal.StringFixed(2))
	form.Set("tax_amount", req.TaxAmount.StringFixed(2))
	form.Set("delivery_charge", req.DeliveryCharge.StringFixed(2))
	form.Set("delivery_tip", req.DeliveryTip.StringFixed(2))
	form.Set("final_total", req.FinalTotal.StringFixed(2))
	form.Set("payment_method", string(req.PaymentMethod))
	form.Set("is_self_pick_up", boolFlag(req.IsSelfPickup))
	if req.PromoCode != "" {
		form.Set("promo_code", req.PromoCode)
		form.Set("promo_discount", req.PromoDiscount.StringFixed(2))
	}
	if req.AddressID != "" {
		form.Set("address_id", req.AddressID)
	}
	if req.OrderNote != "" {
		form.Set("order_note", req.OrderNote)
	}
	if req.TransactionID != "" {
		form.Set("transaction_id", req.TransactionID)
	}

	var resp other.PlaceOrderResponse
	if err := c.call(ctx, "place_order", form, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, &BackendError{Endpoint: "place_order", Message: resp.Message}
	}
	return &models.PlacedOrder{OrderID: resp.OrderID, Message: resp.Message}, nil
}

func (c *backendClient) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	form := url.Values{}
	form.Set("all", "1")

	var resp other.SettingsResponse
	if err := c.call(ctx, "get_settings", form, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, &BackendError{Endpoint: "get_settings", Message: resp.Message}
	}

	settings := &models.UserSettings{CurrencySymbol: resp.Data.Currency, WalletBalance: decimal.Zero}
	if len(resp.Data.UserData) > 0 {
		u := resp.Data.UserData[0]
		settings.UserID = u.ID
		settings.Username = u.Username
		settings.Mobile = u.Mobile
		settings.Email = u.Email
		settings.WalletBalance = u.Balance
	}
	return settings, nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
