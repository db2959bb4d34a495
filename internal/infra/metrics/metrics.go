// File: internal/infra/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment records by status (pending/created/paid/error).",
		},
		[]string{"status"},
	)

	invoiceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_requests_total",
			Help: "Market invoice requests by outcome (ok/error).",
		},
		[]string{"outcome"},
	)

	webhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Inbound payment webhooks by result (paid/ignored/error/unauthorized).",
		},
		[]string{"result"},
	)

	messageEditFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "message_edit_failures_total",
			Help: "Telegram caption edits that failed and were swallowed.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			paymentsTotal,
			invoiceRequestsTotal,
			webhookDeliveriesTotal,
			messageEditFailuresTotal,
		)
	})
}

func IncPayment(status string)  { paymentsTotal.WithLabelValues(status).Inc() }
func IncInvoice(outcome string) { invoiceRequestsTotal.WithLabelValues(outcome).Inc() }
func IncWebhook(result string)  { webhookDeliveriesTotal.WithLabelValues(result).Inc() }
func IncMessageEditFailure()    { messageEditFailuresTotal.Inc() }
