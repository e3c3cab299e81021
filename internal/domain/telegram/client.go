package telegram

import (
	"errors"

	"gopkg.in/telebot.v3"
)

// ErrRecipientUnreachable means the recipient has revoked the bot's
// permission to message them (blocked the bot or deactivated the account).
// Recoverable only by the user reversing that decision; any other delivery
// failure is considered transient.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
	// Probe performs a lightweight reachability check with no visible message.
	Probe(recipientChatID int64) error
}
