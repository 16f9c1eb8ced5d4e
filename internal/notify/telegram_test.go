package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegram_SaleRecorded(t *testing.T) {
	s := &fakeSender{}
	n := &Telegram{api: s, chatID: 42}

	err := n.SaleRecorded(context.Background(), map[string]any{"product_name": "Widget", "selling_price": 12.5})

	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	msg, ok := s.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "product_name: Widget")
}

func TestTelegram_SendError(t *testing.T) {
	n := &Telegram{api: &fakeSender{err: errors.New("blocked")}, chatID: 1}

	err := n.SaleRecorded(context.Background(), map[string]any{})

	assert.ErrorContains(t, err, "blocked")
}

func TestTelegram_CanceledContext(t *testing.T) {
	s := &fakeSender{}
	n := &Telegram{api: s, chatID: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.SaleRecorded(ctx, map[string]any{}), context.Canceled)
	assert.Empty(t, s.sent)
}

type hangingSender struct {
	release chan struct{}
}

func (h hangingSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-h.release
	return tgbotapi.Message{}, nil
}

func TestTelegram_HungSendReturnsAtDeadline(t *testing.T) {
	s := hangingSender{release: make(chan struct{})}
	defer close(s.release)
	n := &Telegram{api: s, chatID: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.SaleRecorded(ctx, map[string]any{"product_name": "Widget"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFormatSale(t *testing.T) {
	text := FormatSale(map[string]any{
		"_id":           "abc",
		"quantity":      2,
		"email":         "m@x.com",
		"product_name":  "Widget",
		"selling_price": 12.5,
		"discount":      0,
	})

	assert.Equal(t, "New sale recorded\n"+
		"product_name: Widget\n"+
		"selling_price: 12.5\n"+
		"email: m@x.com\n"+
		"discount: 0\n"+
		"quantity: 2", text)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.SaleRecorded(context.Background(), nil))
}
