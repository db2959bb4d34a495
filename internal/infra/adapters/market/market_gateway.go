// File: internal/infra/adapters/market/market_gateway.go
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"telegram-payment-relay/internal/config"
	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/domain/ports/adapter"
)

var _ adapter.InvoiceGateway = (*Gateway)(nil)

// Gateway implements adapter.InvoiceGateway against the LZT market invoice API.
type Gateway struct {
	baseURL     string
	apiToken    string
	merchantID  int64
	successURL  string
	callbackURL string
	comment     string
	client      *http.Client
}

func NewGateway(cfg *config.MarketConfig) (*Gateway, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("market api token empty")
	}
	return &Gateway{
		baseURL:     cfg.BaseURL,
		apiToken:    cfg.APIToken,
		merchantID:  cfg.MerchantID,
		successURL:  cfg.SuccessURL,
		callbackURL: cfg.CallbackURL,
		comment:     cfg.Comment,
		client:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *Gateway) Name() string { return "lzt-market" }

// CreateInvoice calls POST /invoice and returns the hosted checkout URL.
// Every failure mode (transport, non-2xx, missing URL) collapses into
// ErrInvoiceRequestFailed; the attempt is terminal and never retried here.
func (g *Gateway) CreateInvoice(ctx context.Context, amount int64, paymentID string) (string, error) {
	payload := map[string]any{
		"currency":     "rub",
		"amount":       amount,
		"payment_id":   paymentID,
		"comment":      g.comment,
		"url_success":  g.successURL,
		"url_callback": g.callbackURL,
		"merchant_id":  g.merchantID,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrInvoiceRequestFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/invoice", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvoiceRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvoiceRequestFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: http %d", domain.ErrInvoiceRequestFailed, resp.StatusCode)
	}

	var out struct {
		Invoice struct {
			URL string `json:"url"`
		} `json:"invoice"`
		Errors any `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrInvoiceRequestFailed, err)
	}
	if out.Invoice.URL == "" {
		return "", fmt.Errorf("%w: response lacks invoice url", domain.ErrInvoiceRequestFailed)
	}
	return out.Invoice.URL, nil
}
