package adapter

import "context"

// InvoiceGateway is the port for the remote market invoice API.
type InvoiceGateway interface {
	Name() string
	// CreateInvoice requests a hosted checkout URL for the given amount,
	// correlated by payment id. Failures are terminal for the attempt;
	// the gateway never retries.
	CreateInvoice(ctx context.Context, amount int64, paymentID string) (string, error)
}
