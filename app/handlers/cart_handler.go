package handlers

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/format"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CartHandler struct {
	base
	cartSvc *services.CartService
}

func NewCartHandler(
	render *render.Render,
	validator *validator.Validate,
	registry *services.StateRegistry,
	money *format.MoneyFormatter,
	payments *services.PaymentService,
	cartSvc *services.CartService,
) *CartHandler {
	return &CartHandler{
		base:    base{render: render, validator: validator, registry: registry, money: money, payments: payments},
		cartSvc: cartSvc,
	}
}

type AddOnRequest struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title"`
	Qty   int    `json:"qty" validate:"min=1"`
}

type AddCartItemRequest struct {
	VariantID string         `json:"product_variant_id" validate:"required"`
	Qty       int            `json:"qty" validate:"required,min=1"`
	AddOns    []AddOnRequest `json:"add_ons" validate:"dive"`
}

type UpdateQtyRequest struct {
	Qty int `json:"qty" validate:"required,min=1"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, http.StatusOK, "Cart loaded.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.cartSvc.Refresh(ctx, st)
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	addOns := make([]models.AddOn, 0, len(req.AddOns))
	for _, a := range req.AddOns {
		addOns = append(addOns, models.AddOn{ID: a.ID, Title: a.Title, Qty: a.Qty})
	}

	h.withState(w, r, http.StatusOK, "Item added to cart.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.cartSvc.AddItem(ctx, st, req.VariantID, req.Qty, addOns)
	})
}

// UpdateQuantity answers before the backend is updated; the debounced result shows up on the next read.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	variantID := mux.Vars(r)["variantID"]
	var req UpdateQtyRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.withState(w, r, http.StatusAccepted, "Quantity update scheduled.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		seq, err := h.cartSvc.ChangeQuantity(ctx, st, variantID, req.Qty)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"product_variant_id": variantID, "request_seq": seq}, nil
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	variantID := mux.Vars(r)["variantID"]
	h.withState(w, r, http.StatusOK, "Item removed from cart.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.cartSvc.RemoveItem(ctx, st, variantID)
	})
}
