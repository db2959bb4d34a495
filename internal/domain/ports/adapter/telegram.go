package adapter

import "context"

// MessageEditor edits a previously sent inline message by its durable
// reference. Rendering (captions, keyboards) is the implementation's concern;
// callers only state which payment state the message should show.
type MessageEditor interface {
	// EditInvoiceCreated shows the created state with a Pay button.
	EditInvoiceCreated(ctx context.Context, inlineMessageID string, amount int64, invoiceURL string) error
	// EditInvoiceError shows the error state without any action control.
	EditInvoiceError(ctx context.Context, inlineMessageID string, amount int64) error
	// EditInvoicePaid shows the final paid state without any action control.
	EditInvoicePaid(ctx context.Context, inlineMessageID string, amount int64) error
}
