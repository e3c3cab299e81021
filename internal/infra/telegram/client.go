// internal/infra/telegram/client.go
package telegram

import (
	"errors"
	"fmt"
	"net/http"

	domainTelegram "lifeweeks_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain Client interface using the
// gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to the specified recipient.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	recipient := &telebot.User{ID: recipientChatID}
	_, err := tba.bot.Send(recipient, text, options)
	return classifyError(err)
}

// Probe checks reachability with a getChat call; no message is delivered.
func (tba *TelebotAdapter) Probe(recipientChatID int64) error {
	_, err := tba.bot.ChatByID(recipientChatID)
	return classifyError(err)
}

// classifyError maps Telegram 403-class failures (the user blocked the bot or
// deactivated their account) onto ErrRecipientUnreachable. Everything else
// passes through unchanged and is treated as transient by the callers.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, telebot.ErrBlockedByUser) ||
		errors.Is(err, telebot.ErrUserIsDeactivated) ||
		errors.Is(err, telebot.ErrNotStartedByUser) {
		return fmt.Errorf("%w: %v", domainTelegram.ErrRecipientUnreachable, err)
	}
	var tbErr *telebot.Error
	if errors.As(err, &tbErr) && tbErr.Code == http.StatusForbidden {
		return fmt.Errorf("%w: %v", domainTelegram.ErrRecipientUnreachable, err)
	}
	return err
}
