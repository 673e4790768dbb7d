package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/usecase"
)

var classIcons = map[string]string{
	"Без нумерации": "🚶",
	"Общий":         "🚃",
	"Сидячий":       "💺",
	"Плацкартный":   "🛏️",
	"Купейный":      "🚪",
	"Мягкий":        "🛋️",
	"СВ":            "👑",
}

func formatSnapshot(snapshot domain.Snapshot) string {
	switch snapshot.Kind {
	case domain.SnapshotNoSeats:
		return "Мест нет либо закрыта продажа"
	case domain.SnapshotSalesClosed:
		return "Продажа закрыта"
	case domain.SnapshotFetchError:
		return "Ошибка получения информации о поезде"
	}

	classes := snapshot.Classes()
	if len(classes) == 0 {
		return "Мест нет"
	}
	var builder strings.Builder
	for i, class := range classes {
		if i > 0 {
			builder.WriteString("\n")
		}
		if icon, ok := classIcons[class.Class]; ok {
			builder.WriteString(icon + " ")
		}
		count := strconv.Itoa(class.Count)
		if class.Unbounded() {
			count = "∞"
		}
		builder.WriteString(class.Class + ": " + count)
	}
	return builder.String()
}

func formatNotification(notification domain.Notification) string {
	if notification.Kind == domain.NotificationEnded {
		return fmt.Sprintf("⏰ Отслеживание завершено по расписанию отправления поезда %s (%s)", notification.TrainNumber, notification.RouteDate)
	}
	return fmt.Sprintf("🔔 Обновление по %s (%s):\n%s", notification.TrainNumber, notification.RouteDate, formatSnapshot(notification.Snapshot))
}

func formatTrainButton(train domain.Train) string {
	return fmt.Sprintf("🚆 Поезд №%s 🕒 %s ➡️ %s", train.Number, train.TimeDepart, train.TimeArrive)
}

func formatRouteHeader(route *domain.Route) string {
	return fmt.Sprintf("%s ➡️ %s, %s\nСписок доступных поездов:", route.CityFrom, route.CityTo, route.Date)
}

func formatTrainDetails(details *usecase.TrainDetails) string {
	header := fmt.Sprintf("🚆 Поезд №%s\n%s ➡️ %s, %s %s", details.Train.Number, details.CityFrom, details.CityTo, details.Date, details.Train.TimeDepart)
	if details.Trackable {
		return header + "\n" + formatSnapshot(details.Snapshot)
	}
	if details.Snapshot.HasUnnumbered() {
		return header + "\n🔕 Отслеживания нет: места без нумерации"
	}
	if details.Snapshot.IsFetchError() {
		return header + "\n" + formatSnapshot(details.Snapshot)
	}
	return header + "\n⏰ Уже отправился"
}

func formatTrackingList(views []domain.TrackingView, limit int) string {
	if len(views) == 0 {
		return "Нет отслеживаемых поездов. Начните с /add_train_new_route."
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Отслеживаемые поезда (%d из %d):", len(views), limit))
	for _, view := range views {
		builder.WriteString(fmt.Sprintf("\n\n🚆 №%s %s ➡️ %s\n📅 %s 🕒 %s\n%s",
			view.TrainNumber, view.CityFrom, view.CityTo, view.RouteDate, view.TimeDepart, formatSnapshot(view.Snapshot)))
	}
	return builder.String()
}

func formatOutcome(outcome usecase.Outcome, trainNumber string, limit int) string {
	switch outcome {
	case usecase.OutcomeStarted:
		return fmt.Sprintf("Отслеживание поезда %s запущено.", trainNumber)
	case usecase.OutcomeAlreadyTracked:
		return fmt.Sprintf("Отслеживание поезда %s уже запущено.", trainNumber)
	case usecase.OutcomeCapExceeded:
		return fmt.Sprintf("Превышено число отслеживаний (max %d).", limit)
	default:
		return "⚠️ Не удалось получить данные о местах. Попробуйте позже."
	}
}

func formatSuggestions(err *usecase.UnknownStationError) string {
	text := "✏️ Ошибка в названии.\nПовторите ввод"
	if len(err.Suggestions) == 0 {
		return text
	}
	return text + "\nВарианты:\n\n" + strings.Join(err.Suggestions, "\n")
}
