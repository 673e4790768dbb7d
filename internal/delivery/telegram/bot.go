package telegram

import (
	"context"
	"net/http"
	"strings"

	"github.com/NasaVasa/railtrack/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	handlers    *Handlers
	pollTimeout int
	webhookURL  string
	updates     chan tgbotapi.Update
	logger      *zap.Logger
}

func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// NewBot builds a bot that long-polls, or receives updates through
// ServeWebhook when webhookURL is set.
func NewBot(api *tgbotapi.BotAPI, handlers *Handlers, pollTimeout int, webhookURL string, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		handlers:    handlers,
		pollTimeout: pollTimeout,
		webhookURL:  strings.TrimRight(webhookURL, "/"),
		updates:     make(chan tgbotapi.Update, api.Buffer),
		logger:      logger,
	}
}

func (b *Bot) WebhookEnabled() bool {
	return b.webhookURL != ""
}

func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.receive()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if !b.WebhookEnabled() {
				b.api.StopReceivingUpdates()
			}
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handlers.HandleUpdate(ctx, b.api, update)
		}
	}
}

func (b *Bot) receive() (tgbotapi.UpdatesChannel, error) {
	if !b.WebhookEnabled() {
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			b.logger.Warn("failed to delete webhook", zap.Error(err))
		}
		config := tgbotapi.NewUpdate(0)
		config.Timeout = b.pollTimeout
		b.logger.Info("telegram long polling started", zap.String("bot", b.api.Self.UserName))
		return b.api.GetUpdatesChan(config), nil
	}

	link := b.webhookURL + "/" + b.api.Token
	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return nil, err
	}
	if info.URL != link {
		webhook, err := tgbotapi.NewWebhook(link)
		if err != nil {
			return nil, err
		}
		if _, err := b.api.Request(webhook); err != nil {
			return nil, err
		}
		b.logger.Info("telegram webhook registered", zap.String("url", b.webhookURL))
	}
	return b.updates, nil
}

// ServeWebhook decodes one update pushed by Telegram and queues it for Start.
func (b *Bot) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("invalid webhook update", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	select {
	case b.updates <- *update:
		w.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

type Notifier struct {
	api    Sender
	logger *zap.Logger
}

func NewNotifier(api Sender, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, logger: logger}
}

func (n *Notifier) Notify(chatID int64, notification domain.Notification) error {
	n.logger.Info("telegram notify send",
		zap.Int64("chat_id", chatID),
		zap.String("kind", string(notification.Kind)),
		zap.String("train_number", notification.TrainNumber),
	)
	msg := tgbotapi.NewMessage(chatID, formatNotification(notification))
	if notification.URL != "" {
		msg.ReplyMarkup = linkKeyboard(notification.URL)
	}
	_, err := n.api.Send(msg)
	if err != nil {
		n.logger.Warn("failed to notify", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return err
}
