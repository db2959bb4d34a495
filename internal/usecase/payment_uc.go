// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/domain/model"
	"telegram-payment-relay/internal/domain/ports/adapter"
	"telegram-payment-relay/internal/domain/ports/repository"
	"telegram-payment-relay/internal/infra/logging"
	"telegram-payment-relay/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// chosenResultTTL bounds the dedup window for chosen-result events. Telegram
// delivers each event once; an hour covers replays without growing Redis.
const chosenResultTTL = time.Hour

type PaymentUseCase interface {
	// OfferInvoice validates an inline query and stores a pending record.
	// Non-admin requesters get ErrNotAdmin, malformed amounts ErrInvalidArgument;
	// the caller answers with nothing in both cases.
	OfferInvoice(ctx context.Context, requesterID int64, query string) (*model.PaymentRecord, error)
	// AttachChosenResult reacts to the admin actually sending the inline
	// result: it binds the durable message reference, requests the invoice
	// and moves the record to created (or error).
	AttachChosenResult(ctx context.Context, resultID, inlineMessageID string) error
	// CompletePaid finalizes a record after the processor confirms payment.
	// Safe under at-least-once webhook delivery.
	CompletePaid(ctx context.Context, paymentID string, reportedAmount int64) error
}

type paymentUC struct {
	payments repository.PaymentRepository
	gateway  adapter.InvoiceGateway
	editor   adapter.MessageEditor
	guard    adapter.EventGuard
	admins   map[int64]struct{}
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	gateway adapter.InvoiceGateway,
	editor adapter.MessageEditor,
	guard adapter.EventGuard,
	adminIDs []int64,
	logger *zerolog.Logger,
) *paymentUC {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &paymentUC{
		payments: payments,
		gateway:  gateway,
		editor:   editor,
		guard:    guard,
		admins:   admins,
		log:      logger,
	}
}

func (u *paymentUC) OfferInvoice(ctx context.Context, requesterID int64, query string) (*model.PaymentRecord, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.OfferInvoice")()

	if _, ok := u.admins[requesterID]; !ok {
		return nil, domain.ErrNotAdmin
	}
	amount, err := parseAmount(query)
	if err != nil {
		return nil, err
	}

	paymentID := newPaymentID(requesterID)
	now := time.Now()
	rec := &model.PaymentRecord{
		PaymentID: paymentID,
		ResultID:  model.DeriveResultID(paymentID),
		Amount:    amount,
		Status:    model.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.payments.Create(ctx, repository.NoTX, rec); err != nil {
		return nil, err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().Str("payment_id", rec.PaymentID).Int64("amount", amount).Msg("payment offered")
	return rec, nil
}

func (u *paymentUC) AttachChosenResult(ctx context.Context, resultID, inlineMessageID string) error {
	defer logging.TraceDuration(u.log, "PaymentUC.AttachChosenResult")()
	logger := logging.With(ctx, u.log)

	if inlineMessageID == "" {
		// The platform gave us no way to edit the message later; nothing to relay.
		logger.Warn().Str("result_id", resultID).Msg("no inline_message_id for chosen result")
		return nil
	}

	if u.guard != nil {
		ok, err := u.guard.Once(ctx, "chosen:"+resultID, chosenResultTTL)
		if err != nil {
			// Guard unavailability must not block payments; fall through.
			logger.Warn().Err(err).Msg("chosen-result guard unavailable")
		} else if !ok {
			logger.Info().Str("result_id", resultID).Msg("duplicate chosen-result event dropped")
			return nil
		}
	}

	rec, err := u.payments.FindByResultID(ctx, repository.NoTX, resultID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn().Str("result_id", resultID).Msg("payment not found for chosen result")
			return nil
		}
		return err
	}
	plog := logger.With().Str("payment_id", rec.PaymentID).Logger()

	if rec.Status != model.PaymentStatusPending {
		// Already relayed; a replay after the guard window must not issue a
		// second invoice or move a settled record backward.
		plog.Warn().Str("status", string(rec.Status)).Msg("chosen result for non-pending payment dropped")
		return nil
	}

	if err := u.payments.Update(ctx, repository.NoTX, rec.PaymentID, repository.PaymentPatch{
		InlineMessageID: &inlineMessageID,
	}); err != nil {
		return err
	}

	invoiceURL, err := u.gateway.CreateInvoice(ctx, rec.Amount, rec.PaymentID)
	if err != nil {
		metrics.IncInvoice("error")
		plog.Error().Err(err).Msg("invoice request failed")
		if uerr := u.advance(ctx, &plog, rec, model.PaymentStatusError, repository.PaymentPatch{}); uerr != nil {
			return uerr
		}
		if eerr := u.editor.EditInvoiceError(ctx, inlineMessageID, rec.Amount); eerr != nil {
			metrics.IncMessageEditFailure()
			plog.Error().Err(eerr).Msg("failed to show error state")
		}
		return nil
	}
	metrics.IncInvoice("ok")

	if err := u.advance(ctx, &plog, rec, model.PaymentStatusCreated, repository.PaymentPatch{
		InvoiceURL: &invoiceURL,
	}); err != nil {
		return err
	}

	if err := u.editor.EditInvoiceCreated(ctx, inlineMessageID, rec.Amount, invoiceURL); err != nil {
		metrics.IncMessageEditFailure()
		plog.Error().Err(err).Msg("failed to show created state")
	}
	plog.Info().Int64("amount", rec.Amount).Msg("invoice created")
	return nil
}

func (u *paymentUC) CompletePaid(ctx context.Context, paymentID string, reportedAmount int64) error {
	defer logging.TraceDuration(u.log, "PaymentUC.CompletePaid")()
	logger := logging.With(ctx, u.log)

	rec, err := u.payments.FindByID(ctx, repository.NoTX, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn().Str("payment_id", paymentID).Msg("payment not found for webhook")
			return nil
		}
		return err
	}
	if rec.InlineMessageID == nil {
		logger.Warn().Str("payment_id", paymentID).Msg("no inline_message_id for paid payment")
		return nil
	}

	// The stored amount is authoritative for rendering; the reported one is
	// kept for the audit log only.
	if err := u.editor.EditInvoicePaid(ctx, *rec.InlineMessageID, rec.Amount); err != nil {
		metrics.IncMessageEditFailure()
		logger.Error().Err(err).Str("payment_id", paymentID).Msg("failed to show paid state")
	}

	if err := u.advance(ctx, logger, rec, model.PaymentStatusPaid, repository.PaymentPatch{}); err != nil {
		return err
	}
	logger.Info().
		Str("payment_id", paymentID).
		Int64("amount", rec.Amount).
		Int64("reported_amount", reportedAmount).
		Msg("payment completed")
	return nil
}

// advance patches the record's status after checking the transition moves
// forward. A backward or sideways write is dropped and logged instead of
// persisted; status only ever advances.
func (u *paymentUC) advance(ctx context.Context, logger *zerolog.Logger, rec *model.PaymentRecord, next model.PaymentStatus, patch repository.PaymentPatch) error {
	if !rec.Status.CanAdvanceTo(next) {
		logger.Warn().
			Str("payment_id", rec.PaymentID).
			Str("from", string(rec.Status)).
			Str("to", string(next)).
			Msg("status regression dropped")
		return nil
	}
	patch.Status = &next
	if err := u.payments.Update(ctx, repository.NoTX, rec.PaymentID, patch); err != nil {
		return err
	}
	if rec.Status != next {
		metrics.IncPayment(string(next))
	}
	return nil
}

// parseAmount accepts whole positive integers only; anything else is rejected
// so a stray inline query can never price an invoice.
func parseAmount(query string) (int64, error) {
	text := strings.TrimSpace(query)
	if text == "" {
		return 0, domain.ErrInvalidArgument
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, domain.ErrInvalidArgument
		}
	}
	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil || amount < 1 {
		return 0, domain.ErrInvalidArgument
	}
	return amount, nil
}

func newPaymentID(requesterID int64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("tg_%d_%s", requesterID, suffix)
}
