package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-fooddelivery/app/helpers"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/format"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type CheckoutView struct {
	SessionID           string                      `json:"session_id"`
	Step                models.Step                 `json:"step"`
	StepName            string                      `json:"step_name"`
	Cart                *models.Cart                `json:"cart"`
	TotalItems          int                         `json:"total_items"`
	Delivery            models.DeliveryContext      `json:"delivery"`
	Promo               *models.PromoCode           `json:"promo,omitempty"`
	Contact             models.Contact              `json:"contact"`
	Note                string                      `json:"note,omitempty"`
	OrderID             string                      `json:"order_id,omitempty"`
	Celebrate           bool                        `json:"celebrate"`
	Payable             decimal.Decimal             `json:"payable"`
	TotalPayable        decimal.Decimal             `json:"total_payable"`
	TotalPayableDisplay string                      `json:"total_payable_display"`
	Availability        services.AvailabilityReport `json:"availability"`
	PendingPayment      *models.PendingPayment      `json:"pending_payment,omitempty"`
	OnlinePayment       bool                        `json:"online_payment_enabled"`
	WalletBalance       *decimal.Decimal            `json:"wallet_balance,omitempty"`
	Notices             []services.Notice           `json:"notices,omitempty"`
}

// base carries what both handlers need to turn a request into a locked AppState and back.
type base struct {
	render    *render.Render
	validator *validator.Validate
	registry  *services.StateRegistry
	money     *format.MoneyFormatter
	payments  *services.PaymentService
}

func (h *base) view(st *services.AppState) CheckoutView {
	c := st.Checkout
	// the view is encoded after the lock is released
	cart := &models.Cart{}
	if st.Cart != nil {
		*cart = *st.Cart
		cart.CartItems = append([]models.CartItem(nil), st.Cart.CartItems...)
	}
	v := CheckoutView{
		SessionID:           st.ID,
		Step:                c.Step,
		StepName:            c.Step.String(),
		Cart:                cart,
		TotalItems:          cart.TotalItems(),
		Delivery:            c.Delivery,
		Promo:               c.Promo,
		Contact:             c.Contact,
		Note:                c.Note,
		OrderID:             c.OrderID,
		Celebrate:           c.Celebrate,
		Payable:             st.Payable,
		TotalPayable:        st.TotalPayable,
		TotalPayableDisplay: h.money.Format(st.TotalPayable),
		Availability:        st.Availability,
		PendingPayment:      st.Pending,
		OnlinePayment:       h.payments.OnlineEnabled(),
		Notices:             st.DrainNotices(),
	}
	if st.Settings != nil {
		balance := st.Settings.WalletBalance
		v.WalletBalance = &balance
	}
	// confetti plays once
	st.Checkout.Celebrate = false
	return v
}

func (h *base) success(w http.ResponseWriter, status int, message string, data interface{}) {
	h.render.JSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func (h *base) fail(w http.ResponseWriter, status int, message string, data interface{}) {
	body := map[string]interface{}{
		"status":  "error",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	h.render.JSON(w, status, body)
}

func (h *base) failWith(w http.ResponseWriter, r *http.Request, err error, view CheckoutView) {
	if ce := services.AsCheckoutError(err); ce != nil {
		data := map[string]interface{}{"kind": ce.Kind, "checkout": view}
		if ce.Details != nil {
			data["details"] = ce.Details
		}
		h.fail(w, ce.HTTPStatus(), ce.Message, data)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Str("session_id", view.SessionID).Msg("unexpected checkout failure")
	h.fail(w, http.StatusInternalServerError, "Something went wrong, please try again.", nil)
}

// decode reads and validates a JSON payload, answering 400/422 itself on failure.
func (h *base) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := helpers.DecodeJSONBody(w, r, dst); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request payload.", nil)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.fail(w, http.StatusUnprocessableEntity, "Please correct the highlighted fields.", map[string]interface{}{
				"kind":   services.KindValidation,
				"fields": helpers.FormatValidationErrors(verrs),
			})
			return false
		}
		h.fail(w, http.StatusBadRequest, "Invalid request payload.", nil)
		return false
	}
	return true
}

// withState runs fn with the session's AppState locked and answers with the resulting view.
func (h *base) withState(w http.ResponseWriter, r *http.Request, okStatus int, okMessage string, fn func(ctx context.Context, st *services.AppState) (interface{}, error)) {
	ctx := r.Context()
	st, err := h.registry.Get(ctx, helpers.SessionIDFromContext(r))
	if err != nil {
		log.Error().Err(err).Msg("failed to load checkout session")
		h.fail(w, http.StatusInternalServerError, "Could not load your checkout.", nil)
		return
	}

	st.Lock()
	extra, err := fn(ctx, st)
	view := h.view(st)
	st.Unlock()

	if err != nil {
		h.failWith(w, r, err, view)
		return
	}
	if extra != nil {
		h.success(w, okStatus, okMessage, map[string]interface{}{"checkout": view, "result": extra})
		return
	}
	h.success(w, okStatus, okMessage, map[string]interface{}{"checkout": view})
}
