package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of the Bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handlers struct {
	userUC      *usecase.UserUsecase
	searchUC    *usecase.SearchUsecase
	trackingUC  *usecase.TrackingUsecase
	cleanupUC   *usecase.CleanupUsecase
	adminChatID int64
	logger      *zap.Logger
}

func NewHandlers(userUC *usecase.UserUsecase, searchUC *usecase.SearchUsecase, trackingUC *usecase.TrackingUsecase, cleanupUC *usecase.CleanupUsecase, adminChatID int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		userUC:      userUC,
		searchUC:    searchUC,
		trackingUC:  trackingUC,
		cleanupUC:   cleanupUC,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api Sender, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, api, update.CallbackQuery)
	case update.Message != nil && update.Message.Chat != nil:
		if update.Message.IsCommand() {
			h.handleCommand(ctx, api, update.Message)
			return
		}
		h.handleText(ctx, api, update.Message)
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api Sender, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", command),
		zap.String("args", message.CommandArguments()),
	)

	// A command abandons whatever free-text step was pending.
	if err := h.searchUC.CancelStep(ctx, chatID); err != nil {
		h.logger.Warn("cancel step failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	switch command {
	case "start", "add_train_new_route":
		if err := h.userUC.Register(ctx, chatID); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.beginSearch(ctx, api, chatID)
	case "help":
		h.reply(api, chatID, HelpText)
	case "add_train_last_route":
		if !h.requireUser(ctx, api, chatID) {
			return
		}
		h.showTrains(ctx, api, chatID)
	case "show_track_list":
		if !h.requireUser(ctx, api, chatID) {
			return
		}
		views, err := h.trackingUC.ListTracking(ctx, chatID)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("tracking list complete", zap.Int64("chat_id", chatID), zap.Int("count", len(views)))
		h.reply(api, chatID, formatTrackingList(views, h.trackingUC.Limit()))
	case "stop_track_train":
		if !h.requireUser(ctx, api, chatID) {
			return
		}
		views, err := h.trackingUC.ListTracking(ctx, chatID)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(views) == 0 {
			h.reply(api, chatID, formatTrackingList(nil, h.trackingUC.Limit()))
			return
		}
		h.replyMarkup(api, chatID, "Выберите поезд, который больше не нужно отслеживать:", untrackKeyboard(views))
	case "stop":
		h.replyMarkup(api, chatID, "Остановить бота? Все отслеживания будут удалены.", stopKeyboard())
	case "cleanup":
		if h.adminChatID == 0 || chatID != h.adminChatID {
			h.logger.Warn("cleanup denied", zap.Int64("chat_id", chatID))
			h.reply(api, chatID, "⛔ У вас нет прав для этой команды.")
			return
		}
		h.reply(api, chatID, "🧹 Запускаю очистку...")
		if _, err := h.cleanupUC.Sweep(ctx); err != nil {
			h.reply(api, chatID, "❌ Ошибка во время очистки.")
			return
		}
		h.reply(api, chatID, "✅ Очистка завершена.")
	default:
		h.logger.Warn("unknown command", zap.Int64("chat_id", chatID), zap.String("command", command))
		h.reply(api, chatID, "Неизвестная команда.\n\n"+HelpText)
	}
}

func (h *Handlers) handleText(ctx context.Context, api Sender, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	session, err := h.searchUC.Session(ctx, chatID)
	if err != nil {
		h.reply(api, chatID, h.errorMessage(err))
		return
	}

	switch session.Step {
	case domain.StepOrigin:
		if _, err := h.searchUC.SetOrigin(ctx, chatID, message.Text); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, "Станция прибытия:")
	case domain.StepDestination:
		if _, err := h.searchUC.SetDestination(ctx, chatID, message.Text); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		today := h.searchUC.Today()
		h.replyMarkup(api, chatID, "📅 Выберите дату или введите её текстом:", calendarKeyboard(today, today))
	case domain.StepDate:
		h.reply(api, chatID, "Идёт поиск 🔍")
		trains, err := h.searchUC.SetDate(ctx, chatID, message.Text)
		h.afterSearch(ctx, api, chatID, trains, err)
	default:
		h.reply(api, chatID, "Выберите команду.\n\n"+HelpText)
	}
}

func (h *Handlers) handleCallback(ctx context.Context, api Sender, query *tgbotapi.CallbackQuery) {
	if _, err := api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		h.logger.Warn("answer callback failed", zap.Error(err))
	}
	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	chatID := query.Message.Chat.ID

	callback, err := ParseCallback(query.Data)
	if err != nil {
		h.logger.Warn("invalid callback", zap.Int64("chat_id", chatID), zap.String("data", query.Data))
		return
	}
	h.logger.Info("telegram callback received",
		zap.Int64("chat_id", chatID),
		zap.String("kind", string(callback.Kind)),
		zap.String("arg", callback.Arg),
	)
	if callback.Kind == CallbackNoop {
		return
	}
	if !h.requireUser(ctx, api, chatID) {
		return
	}

	// Train and tracking ids were validated by ParseCallback.
	id, _ := ParseID(callback.Arg)
	switch callback.Kind {
	case CallbackTrain:
		details, err := h.searchUC.SelectTrain(ctx, chatID, id)
		if err != nil {
			h.replyError(ctx, api, chatID, err)
			return
		}
		h.replyMarkup(api, chatID, formatTrainDetails(details), trainKeyboard(details))
	case CallbackTrack:
		train, outcome, err := h.searchUC.StartTracking(ctx, chatID, id)
		if err != nil {
			h.replyError(ctx, api, chatID, err)
			return
		}
		h.reply(api, chatID, formatOutcome(outcome, train.Number, h.trackingUC.Limit()))
	case CallbackUntrack:
		if err := h.trackingUC.StopTracking(ctx, chatID, id); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, "Отслеживание остановлено.")
	case CallbackDate:
		h.reply(api, chatID, "Идёт поиск 🔍")
		trains, err := h.searchUC.PickDate(ctx, chatID, callback.Arg)
		h.afterSearch(ctx, api, chatID, trains, err)
	case CallbackMonth:
		shown, err := time.Parse(monthLayout, callback.Arg)
		if err != nil {
			return
		}
		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, query.Message.MessageID, calendarKeyboard(shown, h.searchUC.Today()))
		if _, err := api.Request(edit); err != nil {
			h.logger.Warn("calendar update failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	case CallbackBack:
		h.showTrains(ctx, api, chatID)
	case CallbackStopYes:
		if err := h.userUC.StopAll(ctx, chatID); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, "🛑 Бот остановлен. Для нового поиска введите /start")
	case CallbackStopNo:
		h.reply(api, chatID, "🟢 Бот в работе")
	}
}

func (h *Handlers) beginSearch(ctx context.Context, api Sender, chatID int64) {
	if err := h.searchUC.BeginSearch(ctx, chatID); err != nil {
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.reply(api, chatID, "Станция отправления:")
}

func (h *Handlers) showTrains(ctx context.Context, api Sender, chatID int64) {
	route, trains, err := h.searchUC.ListTrains(ctx, chatID)
	if err != nil {
		h.replyError(ctx, api, chatID, err)
		return
	}
	h.replyMarkup(api, chatID, formatRouteHeader(route), trainListKeyboard(trains))
}

func (h *Handlers) afterSearch(ctx context.Context, api Sender, chatID int64, trains []domain.Train, err error) {
	if err != nil {
		h.replyError(ctx, api, chatID, err)
		return
	}
	h.logger.Info("train list complete", zap.Int64("chat_id", chatID), zap.Int("count", len(trains)))
	h.showTrains(ctx, api, chatID)
}

// replyError explains err and, for errors that invalidate the current
// route, restarts the search.
func (h *Handlers) replyError(ctx context.Context, api Sender, chatID int64, err error) {
	h.reply(api, chatID, h.errorMessage(err))
	if errors.Is(err, usecase.ErrRouteLost) || errors.Is(err, usecase.ErrSiteUnavailable) || errors.Is(err, usecase.ErrNoTrains) {
		h.beginSearch(ctx, api, chatID)
	}
}

func (h *Handlers) requireUser(ctx context.Context, api Sender, chatID int64) bool {
	registered, err := h.userUC.IsRegistered(ctx, chatID)
	if err != nil {
		h.reply(api, chatID, h.errorMessage(err))
		return false
	}
	if !registered {
		h.reply(api, chatID, h.errorMessage(usecase.ErrUserNotRegistered))
		return false
	}
	return true
}

func (h *Handlers) errorMessage(err error) string {
	var unknown *usecase.UnknownStationError
	switch {
	case errors.As(err, &unknown):
		return formatSuggestions(unknown)
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return "Сначала введите /start"
	case errors.Is(err, usecase.ErrSameStation):
		return "✏️ Станции отправления и прибытия совпадают.\nПовторите ввод"
	case errors.Is(err, usecase.ErrInvalidDate):
		return "✏️ Неверный формат.\nПримеры: 2026-11-02, 02.11.2026, 02 11 2026, Завтра"
	case errors.Is(err, usecase.ErrPastDate):
		return "✏️ Дата в прошлом.\nПовторите ввод даты"
	case errors.Is(err, usecase.ErrDateTooFar):
		return "✏️ Отслеживание доступно за 60 суток.\nПовторите ввод даты"
	case errors.Is(err, usecase.ErrSiteUnavailable):
		return "⚠️ Ошибка запроса на сервер.\nПовторите ввод маршрута"
	case errors.Is(err, usecase.ErrNoTrains):
		return "❓🚆Поезда не найдены.\nПовторите ввод маршрута"
	case errors.Is(err, usecase.ErrRouteLost):
		return "❓Утерян последний маршрут.\nПовторите ввод маршрута"
	case errors.Is(err, usecase.ErrTrackingNotFound):
		return "Отслеживание не найдено."
	case errors.Is(err, usecase.ErrUnexpectedStep):
		return "Выберите команду.\n\n" + HelpText
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "❌ Ошибка сервера.\nПопробуйте позже"
}

func (h *Handlers) reply(api Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) replyMarkup(api Sender, chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
