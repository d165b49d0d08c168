package routes

import (
	"net/http"

	"github.com/Rakhulsr/go-fooddelivery/app/handlers"
	"github.com/Rakhulsr/go-fooddelivery/app/middlewares"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

type Options struct {
	Render          *render.Render
	SessionStore    sessions.SessionStore
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	Gatherer        prometheus.Gatherer
	// CSRFKey enables CSRF protection on the customer routes when set.
	CSRFKey      []byte
	SecureCookie bool
}

func NewRouter(opts Options) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		opts.Render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := router.NewRoute().Subrouter()
	if len(opts.CSRFKey) > 0 {
		api.Use(csrf.Protect(opts.CSRFKey,
			csrf.Path("/"),
			csrf.Secure(opts.SecureCookie),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log.Warn().Err(csrf.FailureReason(r)).Str("path", r.URL.Path).Msg("csrf check failed")
				opts.Render.JSON(w, http.StatusForbidden, map[string]interface{}{
					"status":  "error",
					"message": "Invalid CSRF token.",
				})
			})),
		))
		api.Use(exposeCSRFToken)
	}
	api.Use(middlewares.SessionMiddleware(opts.SessionStore, opts.Render))
	api.Use(middlewares.BearerTokenMiddleware(opts.Render))

	cart := opts.CartHandler
	api.HandleFunc("/cart", cart.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", cart.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{variantID}", cart.UpdateQuantity).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{variantID}", cart.RemoveItem).Methods(http.MethodDelete)

	checkout := opts.CheckoutHandler
	api.HandleFunc("/checkout", checkout.GetCheckout).Methods(http.MethodGet)
	api.HandleFunc("/checkout", checkout.Abandon).Methods(http.MethodDelete)
	api.HandleFunc("/checkout/next", checkout.Next).Methods(http.MethodPost)
	api.HandleFunc("/checkout/back", checkout.Back).Methods(http.MethodPost)
	api.HandleFunc("/checkout/mode", checkout.SetDeliveryMode).Methods(http.MethodPut)
	api.HandleFunc("/checkout/contact", checkout.SetContact).Methods(http.MethodPut)
	api.HandleFunc("/checkout/address", checkout.SelectAddress).Methods(http.MethodPut)
	api.HandleFunc("/checkout/tip", checkout.SetTip).Methods(http.MethodPut)
	api.HandleFunc("/checkout/note", checkout.SetNote).Methods(http.MethodPut)
	api.HandleFunc("/checkout/promo", checkout.ApplyPromo).Methods(http.MethodPost)
	api.HandleFunc("/checkout/promo", checkout.RemovePromo).Methods(http.MethodDelete)
	api.HandleFunc("/checkout/payment/midtrans", checkout.StartMidtransPayment).Methods(http.MethodPost)
	api.HandleFunc("/checkout/place-order", checkout.PlaceOrder).Methods(http.MethodPost)

	return router
}

func exposeCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CSRF-Token", csrf.Token(r))
		next.ServeHTTP(w, r)
	})
}
