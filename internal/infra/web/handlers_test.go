//go:build !integration

package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"telegram-payment-relay/internal/domain/model"
)

// mockPaymentUC records CompletePaid calls; the other flows are untouched here.
type mockPaymentUC struct {
	mu    sync.Mutex
	calls []struct {
		PaymentID string
		Amount    int64
	}
	CompletePaidError error
}

func (m *mockPaymentUC) OfferInvoice(ctx context.Context, requesterID int64, query string) (*model.PaymentRecord, error) {
	panic("not used by the webhook server")
}

func (m *mockPaymentUC) AttachChosenResult(ctx context.Context, resultID, inlineMessageID string) error {
	panic("not used by the webhook server")
}

func (m *mockPaymentUC) CompletePaid(ctx context.Context, paymentID string, reportedAmount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, struct {
		PaymentID string
		Amount    int64
	}{paymentID, reportedAmount})
	return m.CompletePaidError
}

func (m *mockPaymentUC) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newTestServer(uc *mockPaymentUC) http.Handler {
	logger := zerolog.Nop()
	return NewServer(uc, "merchant-secret", &logger).Router()
}

func postWebhook(t *testing.T, h http.Handler, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Secret-Key", secret)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPaymentWebhook(t *testing.T) {
	t.Run("should reject a wrong secret without touching state", func(t *testing.T) {
		uc := &mockPaymentUC{}
		h := newTestServer(uc)

		rr := postWebhook(t, h, "wrong", `{"status":"paid","payment_id":"tg_42_abc","amount":500}`)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["error"] != "invalid secret" {
			t.Errorf("unexpected body: %v", body)
		}
		if uc.Calls() != 0 {
			t.Error("expected no use case invocation")
		}
	})

	t.Run("should reject a missing secret header", func(t *testing.T) {
		uc := &mockPaymentUC{}
		h := newTestServer(uc)

		rr := postWebhook(t, h, "", `{"status":"paid","payment_id":"tg_42_abc","amount":500}`)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
		if uc.Calls() != 0 {
			t.Error("expected no use case invocation")
		}
	})

	t.Run("should acknowledge non-paid statuses without acting", func(t *testing.T) {
		uc := &mockPaymentUC{}
		h := newTestServer(uc)

		rr := postWebhook(t, h, "merchant-secret", `{"status":"cancelled","payment_id":"tg_42_abc","amount":500}`)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
		if uc.Calls() != 0 {
			t.Error("expected no use case invocation")
		}
	})

	t.Run("should complete a paid webhook", func(t *testing.T) {
		uc := &mockPaymentUC{}
		h := newTestServer(uc)

		rr := postWebhook(t, h, "merchant-secret", `{"status":"paid","payment_id":"tg_42_abc","amount":500}`)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
		var body map[string]bool
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if !body["ok"] {
			t.Errorf("unexpected body: %v", body)
		}
		if uc.Calls() != 1 {
			t.Fatalf("expected one invocation, got %d", uc.Calls())
		}
		if uc.calls[0].PaymentID != "tg_42_abc" || uc.calls[0].Amount != 500 {
			t.Errorf("unexpected call args: %+v", uc.calls[0])
		}
	})

	t.Run("should still acknowledge when completion fails", func(t *testing.T) {
		uc := &mockPaymentUC{CompletePaidError: errors.New("storage down")}
		h := newTestServer(uc)

		rr := postWebhook(t, h, "merchant-secret", `{"status":"paid","payment_id":"tg_42_abc","amount":500}`)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200 despite the failure, got %d", rr.Code)
		}
	})

	t.Run("should swallow an unparseable body", func(t *testing.T) {
		uc := &mockPaymentUC{}
		h := newTestServer(uc)

		rr := postWebhook(t, h, "merchant-secret", `{not json`)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
		if uc.Calls() != 0 {
			t.Error("expected no use case invocation")
		}
	})

	t.Run("should not serve the webhook on GET", func(t *testing.T) {
		uc := &mockPaymentUC{}
		h := newTestServer(uc)

		req := httptest.NewRequest(http.MethodGet, "/webhook/payment", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rr.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	h := newTestServer(&mockPaymentUC{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}
