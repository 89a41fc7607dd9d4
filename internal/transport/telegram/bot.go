package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/coworker/internal/config"
	"github.com/sandevgo/coworker/internal/service/chat"
	"github.com/sandevgo/coworker/pkg/log"
)

const baseContextKey = "base_context"

// Responder answers a single user query within a conversation.
type Responder interface {
	Ask(ctx context.Context, chatID, query string) (chat.Answer, error)
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	chat    Responder
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	responder Responder,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		chat:    responder,
		sender:  newSender(b),
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	// Each Telegram chat maps onto one persistent conversation.
	chatID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	answer, err := b.chat.Ask(ctx, chatID, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("chat_id", chatID).Msg("ask failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	if err := b.sender.sendMarkdown(ctx, c.Chat(), answer.Text, false); err != nil {
		logger.Error().Err(err).Str("chat_id", chatID).Msg("failed to send telegram reply")
	}
	return nil
}
