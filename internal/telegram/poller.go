package telegram

import (
	"context"
	"time"

	"github.com/rozabot/skladstat/internal/bot"
	"go.uber.org/zap"
)

// EventHandler обрабатывает события чата. Реализуется диалоговой логикой.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev bot.Event)
}

const (
	pollTimeout = 30 * time.Second
	// пауза перед повтором после ошибки опроса
	pollRetryDelay = 5 * time.Second
)

// Poller крутит длинный опрос Bot API и передает события обработчику
type Poller struct {
	client  *Client
	handler EventHandler
	logger  *zap.Logger
}

// NewPoller создает новый Poller
func NewPoller(client *Client, handler EventHandler, logger *zap.Logger) *Poller {
	return &Poller{client: client, handler: handler, logger: logger}
}

// Run опрашивает обновления до отмены контекста
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("telegram poller started")
	var offset int64

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("telegram poller stopped")
			return
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("telegram poller stopped")
				return
			}
			p.logger.Warn("failed to get updates", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		// подтверждаем сразу, до построения отчета
		if err := p.client.AnswerCallbackQuery(ctx, cq.ID); err != nil {
			p.logger.Warn("failed to answer callback query", zap.Error(err))
		}
		ev := bot.Event{
			UserID:       cq.From.ID,
			CallbackData: cq.Data,
			Username:     cq.From.Username,
			FirstName:    cq.From.FirstName,
			LastName:     cq.From.LastName,
		}
		if cq.Message != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.MessageID = cq.Message.MessageID
		}
		p.handler.HandleEvent(ctx, ev)

	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		ev := bot.Event{
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		}
		if msg.From != nil {
			ev.UserID = msg.From.ID
			ev.Username = msg.From.Username
			ev.FirstName = msg.From.FirstName
			ev.LastName = msg.From.LastName
		}
		p.handler.HandleEvent(ctx, ev)
	}
}
