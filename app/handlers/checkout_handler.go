package handlers

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/go-fooddelivery/app/helpers"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/format"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type CheckoutHandler struct {
	base
	checkoutSvc  *services.CheckoutService
	sessionStore sessions.SessionStore
}

func NewCheckoutHandler(
	render *render.Render,
	validator *validator.Validate,
	registry *services.StateRegistry,
	money *format.MoneyFormatter,
	payments *services.PaymentService,
	checkoutSvc *services.CheckoutService,
	sessionStore sessions.SessionStore,
) *CheckoutHandler {
	return &CheckoutHandler{
		base:         base{render: render, validator: validator, registry: registry, money: money, payments: payments},
		checkoutSvc:  checkoutSvc,
		sessionStore: sessionStore,
	}
}

type DeliveryModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=Delivery Self-Pickup"`
}

type ContactRequest struct {
	Mobile string `json:"mobile" validate:"required,numeric,min=6,max=16"`
}

type AddressRequest struct {
	ID      string `json:"id" validate:"required"`
	Label   string `json:"label" validate:"max=100"`
	Address string `json:"address" validate:"max=500"`
	CityID  string `json:"city_id"`
}

type TipRequest struct {
	Tip decimal.Decimal `json:"tip"`
}

type NoteRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type PromoRequest struct {
	Code string `json:"promo_code" validate:"required,max=100"`
}

type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod wallet midtrans"`
}

func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, http.StatusOK, "Checkout loaded.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		if st.Settings == nil {
			if err := h.checkoutSvc.LoadSettings(ctx, st); err != nil {
				if ce := services.AsCheckoutError(err); ce != nil {
					st.AddNotice(ce.Kind, ce.Message)
				}
			}
		}
		return nil, nil
	})
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, http.StatusOK, "Moved to the next step.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.Next(ctx, st)
	})
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, http.StatusOK, "Moved to the previous step.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.Back(ctx, st)
	})
}

func (h *CheckoutHandler) SetDeliveryMode(w http.ResponseWriter, r *http.Request) {
	var req DeliveryModeRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withState(w, r, http.StatusOK, "Delivery mode updated.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.SetDeliveryMode(ctx, st, models.DeliveryMode(req.Mode))
	})
}

func (h *CheckoutHandler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withState(w, r, http.StatusOK, "Contact updated.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.SetContact(ctx, st, req.Mobile)
	})
}

func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if !h.decode(w, r, &req) {
		return
	}
	addr := models.DeliveryAddress{ID: req.ID, Label: req.Label, Address: req.Address, CityID: req.CityID}
	h.withState(w, r, http.StatusOK, "Delivery address selected.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.SelectAddress(ctx, st, addr)
	})
}

func (h *CheckoutHandler) SetTip(w http.ResponseWriter, r *http.Request) {
	var req TipRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withState(w, r, http.StatusOK, "Tip updated.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.SetTip(ctx, st, req.Tip)
	})
}

func (h *CheckoutHandler) SetNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withState(w, r, http.StatusOK, "Order note saved.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.SetNote(ctx, st, req.Note)
	})
}

func (h *CheckoutHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withState(w, r, http.StatusOK, "Promo code applied.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.ApplyPromo(ctx, st, req.Code)
	})
}

func (h *CheckoutHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, http.StatusOK, "Promo code removed.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		return nil, h.checkoutSvc.RemovePromo(ctx, st)
	})
}

func (h *CheckoutHandler) StartMidtransPayment(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, http.StatusCreated, "Online payment started.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		pending, err := h.checkoutSvc.StartOnlinePayment(ctx, st)
		if err != nil {
			return nil, err
		}
		return pending, nil
	})
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withState(w, r, http.StatusOK, "Order placed.", func(ctx context.Context, st *services.AppState) (interface{}, error) {
		order, err := h.checkoutSvc.PlaceOrder(ctx, st, models.PaymentMethod(req.PaymentMethod))
		if err != nil {
			return nil, err
		}
		return order, nil
	})
}

// Abandon discards the session, which is how a customer starts over after an order.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := helpers.SessionIDFromContext(r)
	if err := h.checkoutSvc.Abandon(r.Context(), id); err != nil {
		log.Error().Err(err).Str("session_id", id).Msg("failed to discard checkout session")
		h.fail(w, http.StatusInternalServerError, "Could not reset your checkout.", nil)
		return
	}
	if err := h.sessionStore.ClearCheckoutID(w, r); err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("failed to clear session cookie")
	}
	h.success(w, http.StatusOK, "Checkout reset.", nil)
}
