package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/domain/model"
	"telegram-payment-relay/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `payment_id, result_id, amount, inline_message_id, invoice_url, status, created_at, updated_at`

func (r *paymentRepo) Create(ctx context.Context, tx repository.Tx, rec *model.PaymentRecord) error {
	const q = `
INSERT INTO payments (
  payment_id, result_id, amount, inline_message_id, invoice_url, status, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
) ON CONFLICT (payment_id) DO UPDATE SET
  result_id=$2, amount=$3, inline_message_id=$4, invoice_url=$5, status=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, rec.PaymentID, rec.ResultID, rec.Amount, rec.InlineMessageID, rec.InvoiceURL, rec.Status, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, paymentID string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id=$1;`
	return r.queryOne(ctx, tx, q, paymentID)
}

func (r *paymentRepo) FindByResultID(ctx context.Context, tx repository.Tx, resultID string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE result_id=$1 LIMIT 1;`
	return r.queryOne(ctx, tx, q, resultID)
}

// Update patches only the supplied fields. Zero rows affected (unknown
// payment id) is not an error; both callers check existence beforehand.
func (r *paymentRepo) Update(ctx context.Context, tx repository.Tx, paymentID string, patch repository.PaymentPatch) error {
	const q = `
UPDATE payments SET
  inline_message_id = COALESCE($2, inline_message_id),
  invoice_url       = COALESCE($3, invoice_url),
  status            = COALESCE($4, status),
  updated_at        = NOW()
WHERE payment_id = $1;`

	_, err := execSQL(ctx, r.pool, tx, q, paymentID, patch.InlineMessageID, patch.InvoiceURL, patch.Status)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) queryOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.PaymentRecord, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	rec := &model.PaymentRecord{}
	if err := row.Scan(&rec.PaymentID, &rec.ResultID, &rec.Amount, &rec.InlineMessageID, &rec.InvoiceURL, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rec, nil
}
