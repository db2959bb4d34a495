// File: internal/infra/adapters/telegram/real_bot.go
package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-payment-relay/internal/config"
	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/infra/logging"
	"telegram-payment-relay/internal/usecase"
)

// inlineCacheTime is the platform-side cache window for inline answers.
// Kept short so a stale pending card is never reused by the admin.
const inlineCacheTime = 1

// RealBotAdapter polls Telegram updates and delegates to the payment use case.
type RealBotAdapter struct {
	bot *tgbotapi.BotAPI
	cfg *config.BotConfig
	uc  usecase.PaymentUseCase
	log *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealBotAdapter(bot *tgbotapi.BotAPI, cfg *config.BotConfig, uc usecase.PaymentUseCase, logger *zerolog.Logger) (*RealBotAdapter, error) {
	if bot == nil {
		return nil, errors.New("bot api is nil")
	}
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if uc == nil {
		return nil, errors.New("payment use case is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	return &RealBotAdapter{
		bot:           bot,
		cfg:           cfg,
		uc:            uc,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	switch {
	case up.InlineQuery != nil:
		return r.handleInlineQuery(ctx, up.InlineQuery)
	case up.ChosenInlineResult != nil:
		return r.handleChosenResult(ctx, up.ChosenInlineResult)
	default:
		return nil
	}
}

// handleInlineQuery offers exactly one pending-invoice card, or nothing at
// all: rejected requesters and malformed amounts get no answer.
func (r *RealBotAdapter) handleInlineQuery(ctx context.Context, q *tgbotapi.InlineQuery) error {
	ctx = logging.WithTgID(ctx, q.From.ID)

	rec, err := r.uc.OfferInvoice(ctx, q.From.ID, q.Query)
	if err != nil {
		if errors.Is(err, domain.ErrNotAdmin) || errors.Is(err, domain.ErrInvalidArgument) {
			return nil
		}
		return err
	}

	card := tgbotapi.NewInlineQueryResultCachedPhoto(rec.ResultID, r.cfg.ImageFileID)
	card.Caption = renderCaption(rec.Status, rec.Amount)
	kb := loadingKeyboard()
	card.ReplyMarkup = &kb

	answer := tgbotapi.InlineConfig{
		InlineQueryID: q.ID,
		Results:       []interface{}{card},
		CacheTime:     inlineCacheTime,
		IsPersonal:    true,
	}
	if _, err := r.bot.Request(answer); err != nil {
		return err
	}
	return nil
}

func (r *RealBotAdapter) handleChosenResult(ctx context.Context, chosen *tgbotapi.ChosenInlineResult) error {
	ctx = logging.WithTgID(ctx, chosen.From.ID)
	return r.uc.AttachChosenResult(ctx, chosen.ResultID, chosen.InlineMessageID)
}
