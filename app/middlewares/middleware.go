package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/helpers"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/sessions"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

// SessionMiddleware makes sure every request carries a checkout session id.
func SessionMiddleware(store sessions.SessionStore, rdr *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := store.EnsureCheckoutID(w, r)
			if err != nil {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to establish checkout session")
				rdr.JSON(w, http.StatusInternalServerError, map[string]interface{}{
					"status":  "error",
					"message": "Could not start a checkout session.",
				})
				return
			}
			ctx := context.WithValue(r.Context(), helpers.ContextKeySessionID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerTokenMiddleware forwards the customer's token to backend calls made for this request.
func BearerTokenMiddleware(rdr *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := helpers.BearerToken(r)
			if token == "" {
				rdr.JSON(w, http.StatusUnauthorized, map[string]interface{}{
					"status":  "error",
					"message": "Missing bearer token.",
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(services.WithBearerToken(r.Context(), token)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), helpers.ContextKeyRequestID, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		event := log.Info()
		if rec.status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
