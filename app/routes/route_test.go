package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/handlers"
	"github.com/Rakhulsr/go-fooddelivery/app/metrics"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/format"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/renderer"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketplaceCart = `{
	"error": false,
	"sub_total": "100",
	"tax_amount": "10",
	"tax_percentage": "10",
	"data": [{"product_variant_id": "v1", "name": "Mie Ayam", "qty": 2, "price": "50", "stock": 4,
		"start_time": "00:00:00", "end_time": "00:00:00"}]
}`

func newMarketplace(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cust-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/get_user_cart":
			io.WriteString(w, marketplaceCart)
		case "/get_settings":
			io.WriteString(w, `{"error": false, "data": {"currency": "Rp", "user_data": [{"id": "u1", "mobile": "0812345", "balance": "0"}]}}`)
		case "/place_order":
			io.WriteString(w, `{"error": false, "message": "Order Placed Successfully", "order_id": "777"}`)
		default:
			io.WriteString(w, `{"error": true, "message": "unsupported"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (c *apiClient) do(method, path, body string) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer cust-token")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func checkoutOf(body map[string]interface{}) map[string]interface{} {
	data, _ := body["data"].(map[string]interface{})
	view, _ := data["checkout"].(map[string]interface{})
	return view
}

func newTestServer(t *testing.T) (*httptest.Server, *services.CheckoutService) {
	t.Helper()
	marketplace := newMarketplace(t)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	backend := services.NewBackendClient(marketplace.URL, 2*time.Second)
	registry := services.NewStateRegistry(nil)
	pricing := services.NewPricingAggregator(time.Now, m)
	debouncer := services.NewDebouncer(20 * time.Millisecond)
	t.Cleanup(debouncer.Stop)
	payments := services.NewPaymentService(nil)

	quoter := services.NewDeliveryQuoter(backend, nil)

	cartSvc := services.NewCartService(backend, registry, pricing, quoter, debouncer, m)
	checkoutSvc := services.NewCheckoutService(services.CheckoutDeps{
		Backend:   backend,
		Registry:  registry,
		Pricing:   pricing,
		Payments:  payments,
		Quoter:    quoter,
		Debouncer: debouncer,
		Metrics:   m,
	})

	rdr := renderer.New(false)
	validate := validator.New()
	money := format.NewMoneyFormatter("Rp")
	store := sessions.NewCookieSessionStore(false, []byte("0123456789abcdef0123456789abcdef"))

	router := NewRouter(Options{
		Render:          rdr,
		SessionStore:    store,
		CartHandler:     handlers.NewCartHandler(rdr, validate, registry, money, payments, cartSvc),
		CheckoutHandler: handlers.NewCheckoutHandler(rdr, validate, registry, money, payments, checkoutSvc, store),
		Gatherer:        reg,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, checkoutSvc
}

func newAPIClient(t *testing.T, srv *httptest.Server) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func TestRequiresBearerToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/cart")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSelfPickupCheckoutFlow(t *testing.T) {
	srv, checkoutSvc := newTestServer(t)
	api := newAPIClient(t, srv)

	status, body := api.do(http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "110", checkoutOf(body)["payable"])

	status, body = api.do(http.MethodGet, "/checkout", "")
	require.Equal(t, http.StatusOK, status)
	contact := checkoutOf(body)["contact"].(map[string]interface{})
	assert.Equal(t, "0812345", contact["mobile"])

	status, body = api.do(http.MethodPut, "/checkout/mode", `{"mode": "Self-Pickup"}`)
	require.Equal(t, http.StatusOK, status, body)

	status, body = api.do(http.MethodPost, "/checkout/next", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(3), checkoutOf(body)["step"])

	status, body = api.do(http.MethodPost, "/checkout/place-order", `{"payment_method": "cod"}`)
	require.Equal(t, http.StatusOK, status, body)
	view := checkoutOf(body)
	assert.Equal(t, float64(4), view["step"])
	assert.Equal(t, "777", view["order_id"])
	assert.Equal(t, true, view["celebrate"])
	checkoutSvc.Wait()

	status, body = api.do(http.MethodPost, "/checkout/back", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, float64(4), checkoutOf(body)["step"])
	assert.Equal(t, false, checkoutOf(body)["celebrate"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `fooddelivery_checkout_order_placements_total{result="success"} 1`))
}

func TestValidationErrorsAreUnprocessable(t *testing.T) {
	srv, _ := newTestServer(t)
	api := newAPIClient(t, srv)

	status, body := api.do(http.MethodPut, "/checkout/contact", `{"mobile": "abc"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	fields := body["data"].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Contains(t, fields, "mobile")

	status, _ = api.do(http.MethodPost, "/checkout/place-order", `{"payment_method": "cash"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = api.do(http.MethodPost, "/checkout/back", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation", body["data"].(map[string]interface{})["kind"])
}
