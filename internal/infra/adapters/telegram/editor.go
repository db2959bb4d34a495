// File: internal/infra/adapters/telegram/editor.go
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/domain/model"
	"telegram-payment-relay/internal/domain/ports/adapter"
)

var _ adapter.MessageEditor = (*MessageEditor)(nil)

// MessageEditor edits inline messages by their durable reference.
type MessageEditor struct {
	bot *tgbotapi.BotAPI
}

func NewMessageEditor(bot *tgbotapi.BotAPI) *MessageEditor {
	return &MessageEditor{bot: bot}
}

func (e *MessageEditor) EditInvoiceCreated(ctx context.Context, inlineMessageID string, amount int64, invoiceURL string) error {
	kb := payKeyboard(invoiceURL)
	return e.edit(inlineMessageID, renderCaption(model.PaymentStatusCreated, amount), &kb)
}

func (e *MessageEditor) EditInvoiceError(ctx context.Context, inlineMessageID string, amount int64) error {
	return e.edit(inlineMessageID, renderCaption(model.PaymentStatusError, amount), nil)
}

func (e *MessageEditor) EditInvoicePaid(ctx context.Context, inlineMessageID string, amount int64) error {
	return e.edit(inlineMessageID, renderCaption(model.PaymentStatusPaid, amount), nil)
}

func (e *MessageEditor) edit(inlineMessageID, caption string, kb *tgbotapi.InlineKeyboardMarkup) error {
	cfg := tgbotapi.EditMessageCaptionConfig{
		BaseEdit: tgbotapi.BaseEdit{
			InlineMessageID: inlineMessageID,
			ReplyMarkup:     kb,
		},
		Caption: caption,
	}
	if _, err := e.bot.Request(cfg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMessageEditFailed, err)
	}
	return nil
}

// renderCaption matches the card text for every payment state.
func renderCaption(status model.PaymentStatus, amount int64) string {
	label := string(status)
	if status == model.PaymentStatusPaid {
		label = "paid ✅"
	}
	return fmt.Sprintf("💳 Status: %s\n\n💵 Amount: %d RUB", label, amount)
}

func payKeyboard(invoiceURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💳 Pay", invoiceURL),
		),
	)
}

func loadingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Loading...", "loading"),
		),
	)
}
