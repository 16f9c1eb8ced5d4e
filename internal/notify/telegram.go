package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts sale notifications to a single chat.
type Telegram struct {
	api    sender
	chatID int64
}

// sendTimeout caps every Bot API call, including the authorization call made
// by NewTelegram.
const sendTimeout = 5 * time.Second

// NewTelegram authorizes the bot token and returns a notifier bound to
// chatID.
func NewTelegram(token string, chatID int64, debug bool) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = debug

	slog.Info("telegram notifier authorized", slog.String("account", api.Self.UserName))
	return &Telegram{api: api, chatID: chatID}, nil
}

// SaleRecorded returns when the message is sent or ctx is done, whichever
// comes first.
func (t *Telegram) SaleRecorded(ctx context.Context, sale map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatSale(sale))

	done := make(chan error, 1)
	go func() {
		_, err := t.api.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram send: %w", ctx.Err())
	}
}
