package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const unavailableMessage = "Sorry, I cannot answer right now. Please try again in a moment."

// Asker is the part of chat.Service the bot uses.
type Asker interface {
	AskSession(ctx context.Context, userID, sessionID, question string, opts ...chat.AskOption) (core.Result, error)
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	chats   Asker
	router  core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	chats Asker,
	router core.CmdRouter,
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
		chats:   chats,
		router:  router,
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

	// Middleware: Only allow the owner when one is configured
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if bot.ownerID != 0 && c.Sender().ID != bot.ownerID {
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
	req := requestFor(c.Chat().ID, c.Sender().ID)
	ctx = log.WithStr(ctx, "session", req.SessionID)

	if out, ok := b.router.Execute(ctx, req, c.Text()); ok {
		return b.sender.sendMarkdown(ctx, c.Chat(), out, false)
	}

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	out, ok := b.answer(ctx, req, c.Text())
	if !ok {
		return nil
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), out, false)
}

// requestFor keys the session by chat and sender, so members of a group
// chat each keep their own conversation.
func requestFor(chatID, senderID int64) core.CommandRequest {
	return core.CommandRequest{
		SessionID: fmt.Sprintf("telegram-%d-%d", chatID, senderID),
		UserID:    fmt.Sprintf("telegram-%d", senderID),
	}
}

// answer returns the Markdown reply for a question. ok is false when
// nothing should be sent back.
func (b *Bot) answer(ctx context.Context, req core.CommandRequest, text string) (string, bool) {
	res, err := b.chats.AskSession(ctx, req.UserID, req.SessionID, text)
	switch {
	case errors.Is(err, core.ErrInvalidQuestion):
		return "", false
	case err != nil:
		log.FromCtx(ctx).Error().Err(err).Msg("ask failed")
		return unavailableMessage, true
	}
	return formatAnswer(res), true
}

// formatAnswer appends the cited sources to the answer as Markdown.
func formatAnswer(res core.Result) string {
	sources := chat.Sources(res.Metadata)
	if len(sources) == 0 {
		return res.Answer
	}

	var sb strings.Builder
	sb.WriteString(res.Answer)
	sb.WriteString("\n\n**Sources**\n")
	for _, s := range sources {
		sb.WriteString("› ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}
