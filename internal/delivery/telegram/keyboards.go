package telegram

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const monthLayout = "2006-01"

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var weekDays = [...]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

func button(text string, callback Callback) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, callback.Data())
}

func noopButton(text string) tgbotapi.InlineKeyboardButton {
	return button(text, Callback{Kind: CallbackNoop})
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func trainListKeyboard(trains []domain.Train) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(trains))
	for _, train := range trains {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(formatTrainButton(train), Callback{Kind: CallbackTrain, Arg: formatID(train.ID)}),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func trainKeyboard(details *usecase.TrainDetails) tgbotapi.InlineKeyboardMarkup {
	back := button("🔄 Назад к поездам", Callback{Kind: CallbackBack})
	if !details.Trackable {
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(back))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("🔍 Отслеживать", Callback{Kind: CallbackTrack, Arg: formatID(details.Train.ID)})),
		tgbotapi.NewInlineKeyboardRow(back),
	)
}

func untrackKeyboard(views []domain.TrackingView) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(views))
	for _, view := range views {
		text := fmt.Sprintf("❌ №%s %s %s", view.TrainNumber, view.RouteDate, view.TimeDepart)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(text, Callback{Kind: CallbackUntrack, Arg: formatID(view.ID)}),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func stopKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		button("Да, остановить", Callback{Kind: CallbackStopYes}),
		button("Нет", Callback{Kind: CallbackStopNo}),
	))
}

func linkKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL("На сайт", url),
	))
}

// calendarKeyboard renders the month of shown as a Monday-first grid. Only
// days inside the sales window starting at today are selectable, and month
// navigation stays inside that window.
func calendarKeyboard(shown, today time.Time) tgbotapi.InlineKeyboardMarkup {
	first, last := usecase.DateWindow(today)
	month := time.Date(shown.Year(), shown.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstMonth := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month.Before(firstMonth) {
		month = firstMonth
	}
	if month.After(lastMonth) {
		month = lastMonth
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(noopButton(fmt.Sprintf("%s %d", monthNames[month.Month()-1], month.Year()))),
	}
	header := make([]tgbotapi.InlineKeyboardButton, 0, len(weekDays))
	for _, day := range weekDays {
		header = append(header, noopButton(day))
	}
	rows = append(rows, header)

	offset := (int(month.Weekday()) + 6) % 7
	week := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, noopButton(" "))
	}
	for day := month; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
		label := strconv.Itoa(day.Day())
		switch {
		case day.Before(first) || day.After(last):
			week = append(week, noopButton("·"+label))
		case day.Equal(first):
			week = append(week, button("🔹"+label, Callback{Kind: CallbackDate, Arg: day.Format(domain.DateLayout)}))
		default:
			week = append(week, button(label, Callback{Kind: CallbackDate, Arg: day.Format(domain.DateLayout)}))
		}
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]tgbotapi.InlineKeyboardButton, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, noopButton(" "))
		}
		rows = append(rows, week)
	}

	nav := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	if month.After(firstMonth) {
		nav = append(nav, button("◀️", Callback{Kind: CallbackMonth, Arg: month.AddDate(0, -1, 0).Format(monthLayout)}))
	}
	nav = append(nav, button("Сегодня", Callback{Kind: CallbackDate, Arg: first.Format(domain.DateLayout)}))
	if month.Before(lastMonth) {
		nav = append(nav, button("▶️", Callback{Kind: CallbackMonth, Arg: month.AddDate(0, 1, 0).Format(monthLayout)}))
	}
	rows = append(rows, nav)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
