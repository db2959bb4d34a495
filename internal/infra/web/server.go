// File: internal/infra/web/server.go
package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/infra/logging"
	"telegram-payment-relay/internal/infra/metrics"
	"telegram-payment-relay/internal/usecase"
)

// Server exposes the inbound webhook plus health and metrics endpoints.
type Server struct {
	paymentUC usecase.PaymentUseCase
	secret    string // merchant token, compared against X-Secret-Key
	log       *zerolog.Logger
}

func NewServer(paymentUC usecase.PaymentUseCase, secret string, logger *zerolog.Logger) *Server {
	return &Server{
		paymentUC: paymentUC,
		secret:    secret,
		log:       logger,
	}
}

// Router builds the route table. The webhook sits behind the secret check;
// health and metrics stay open.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.secretMiddleware)
		r.Post("/webhook/payment", s.handlePaymentWebhook)
	})
	return r
}

// traceMiddleware tags every request with a fresh trace id for log correlation.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), ulid.Make().String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// secretMiddleware rejects requests whose shared secret does not match. The
// response is deliberately generic; which part of validation failed is not
// leaked.
func (s *Server) secretMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Secret-Key")
		if s.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			metrics.IncWebhook("unauthorized")
			logging.With(r.Context(), s.log).Warn().Err(domain.ErrInvalidSecret).Msg("webhook rejected")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid secret"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
