package telegram

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Septrum101/porkbunDDNS/config"
)

type Telegram struct {
	// ApiHost replaces api.telegram.org, e.g. for a local bot API server.
	ApiHost    string
	ChatID     string
	Token      string
	HTTPClient *http.Client

	mu  sync.Mutex
	bot *tg.BotAPI
}

func (t *Telegram) Webhook(title string, content string) error {
	chatID, err := strconv.ParseInt(t.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("[telegram] invalid chat id %q: %w", t.ChatID, err)
	}

	bot, err := t.getBot()
	if err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}

	msg := tg.NewMessage(chatID, fmt.Sprintf("#%s\n%s\n%s",
		config.AppName,
		title,
		content,
	))
	if _, err = bot.Send(msg); err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}
	return nil
}

// getBot connects on first use; NewBotAPI validates the token with getMe.
// A failed connection is not cached, the next Webhook tries again.
func (t *Telegram) getBot() (*tg.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}

	endpoint := tg.APIEndpoint
	if t.ApiHost != "" {
		endpoint = "https://" + t.ApiHost + "/bot%s/%s"
	}
	client := t.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tg.NewBotAPIWithClient(t.Token, endpoint, client)
	if err != nil {
		return nil, err
	}
	t.bot = bot
	return bot, nil
}
