package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const HelpText = `Команды:
/start - начать поиск маршрута
/add_train_new_route - новый маршрут
/add_train_last_route - поезда последнего маршрута
/show_track_list - отслеживаемые поезда
/stop_track_train - прекратить отслеживание поезда
/stop - остановить бота и удалить данные
/help - эта справка

Порядок: станция отправления, станция прибытия, дата (кнопкой в календаре или текстом, например 2026-11-02, 02.11.2026, Сегодня, Завтра). Затем выберите поезд и нажмите "Отслеживать": бот сообщит, когда изменится наличие мест. Одновременно можно отслеживать до 5 поездов.`

var ErrInvalidCallback = errors.New("invalid callback data")

type CallbackKind string

const (
	CallbackTrain   CallbackKind = "train"
	CallbackTrack   CallbackKind = "track"
	CallbackUntrack CallbackKind = "untrack"
	CallbackDate    CallbackKind = "date"
	CallbackMonth   CallbackKind = "month"
	CallbackBack    CallbackKind = "back"
	CallbackStopYes CallbackKind = "stop_yes"
	CallbackStopNo  CallbackKind = "stop_no"
	CallbackNoop    CallbackKind = "noop"
)

// maxCallbackData is the Telegram limit for inline button payloads.
const maxCallbackData = 64

// Callback is the decoded payload of an inline keyboard button,
// encoded as "<kind>:<arg>".
type Callback struct {
	Kind CallbackKind
	Arg  string
}

func (c Callback) Data() string {
	return string(c.Kind) + ":" + c.Arg
}

func ParseCallback(data string) (Callback, error) {
	if len(data) > maxCallbackData {
		return Callback{}, ErrInvalidCallback
	}
	kind, arg, ok := strings.Cut(data, ":")
	if !ok {
		return Callback{}, ErrInvalidCallback
	}
	callback := Callback{Kind: CallbackKind(kind), Arg: arg}
	switch callback.Kind {
	case CallbackDate, CallbackMonth:
		if arg == "" {
			return Callback{}, ErrInvalidCallback
		}
	case CallbackTrain, CallbackTrack, CallbackUntrack:
		if _, err := ParseID(arg); err != nil {
			return Callback{}, err
		}
	case CallbackBack, CallbackStopYes, CallbackStopNo, CallbackNoop:
	default:
		return Callback{}, ErrInvalidCallback
	}
	return callback, nil
}

// ParseID decodes the train or tracking id carried by a callback.
func ParseID(arg string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
	if err != nil || value == 0 {
		return 0, ErrInvalidCallback
	}
	return uint(value), nil
}
