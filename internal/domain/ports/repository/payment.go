package repository

import (
	"context"

	"telegram-payment-relay/internal/domain/model"
)

// PaymentPatch is a sparse update: only non-nil fields are written, every
// other column keeps its prior value.
type PaymentPatch struct {
	InlineMessageID *string
	InvoiceURL      *string
	Status          *model.PaymentStatus
}

type PaymentRepository interface {
	// Create inserts the record, replacing any existing row with the same
	// payment id (last write wins; duplicate inline-query triggers are benign).
	Create(ctx context.Context, tx Tx, rec *model.PaymentRecord) error
	FindByID(ctx context.Context, tx Tx, paymentID string) (*model.PaymentRecord, error)
	FindByResultID(ctx context.Context, tx Tx, resultID string) (*model.PaymentRecord, error)
	// Update applies the patch to an existing record. Updating an unknown
	// payment id is a silent no-op.
	Update(ctx context.Context, tx Tx, paymentID string, patch PaymentPatch) error
}
