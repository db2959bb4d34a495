// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"net/http"

	"telegram-payment-relay/internal/infra/logging"
	"telegram-payment-relay/internal/infra/metrics"
)

// paymentWebhookRequest is the processor's notification body.
type paymentWebhookRequest struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
}

// handlePaymentWebhook finalizes a payment. Deliveries are at-least-once, so
// every outcome short of a secret mismatch acknowledges with 200: the
// processor must never be told to redeliver something we cannot act on.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.With(ctx, s.log)

	var req paymentWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncWebhook("ignored")
		logger.Warn().Err(err).Msg("unparseable webhook body")
		writeOK(w)
		return
	}

	if req.Status != "paid" {
		// Other statuses are not modeled; acknowledge and move on.
		metrics.IncWebhook("ignored")
		logger.Debug().Str("status", req.Status).Str("payment_id", req.PaymentID).Msg("webhook status ignored")
		writeOK(w)
		return
	}

	ctx = logging.WithPaymentID(ctx, req.PaymentID)
	if err := s.paymentUC.CompletePaid(ctx, req.PaymentID, req.Amount); err != nil {
		// Storage trouble is ours, not the processor's; log and acknowledge.
		metrics.IncWebhook("error")
		logging.With(ctx, s.log).Error().Err(err).Msg("webhook completion failed")
		writeOK(w)
		return
	}
	metrics.IncWebhook("paid")
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
