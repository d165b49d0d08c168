package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rakhulsr/go-fooddelivery/app/helpers"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/renderer"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddlewareReusesCookie(t *testing.T) {
	store := sessions.NewCookieSessionStore(false, []byte("0123456789abcdef0123456789abcdef"))
	var seen []string
	h := SessionMiddleware(store, renderer.New(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, helpers.SessionIDFromContext(r))
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Len(t, first.Result().Cookies(), 1)

	second := httptest.NewRequest(http.MethodGet, "/cart", nil)
	second.AddCookie(first.Result().Cookies()[0])
	h.ServeHTTP(httptest.NewRecorder(), second)

	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.Equal(t, seen[0], seen[1])
}

func TestBearerTokenMiddleware(t *testing.T) {
	var token string
	h := BearerTokenMiddleware(renderer.New(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = services.BearerToken(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer t-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t-1", token)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, helpers.RequestIDFromContext(r))
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
