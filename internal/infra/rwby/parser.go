package rwby

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const missingTime = "Нет данных"

const (
	rowSelector       = "div.sch-table__row"
	classSelector     = ".sch-table__t-quant.js-train-modal.dash"
	departureSelector = "div.sch-table__time.train-from-time"
)

// findRow returns the first schedule row whose train number starts with
// number. Listed numbers may carry letter suffixes the stored number lacks.
func findRow(doc *goquery.Document, number string) *goquery.Selection {
	selector := fmt.Sprintf(`%s[data-train-number^="%s"]`, rowSelector, cssEscape(number))
	row := doc.Find(selector).First()
	if row.Length() == 0 {
		return nil
	}
	return row
}

func parseSnapshot(doc *goquery.Document, number string) domain.Snapshot {
	row := findRow(doc, number)
	if row == nil {
		return domain.SalesClosed()
	}
	return rowSnapshot(row)
}

func rowSnapshot(row *goquery.Selection) domain.Snapshot {
	allowed, _ := row.Attr("data-ticket_selling_allowed")
	switch strings.TrimSpace(allowed) {
	case "true":
		return domain.SeatsSnapshot(parseClasses(row))
	case "false":
		return domain.NoSeats()
	default:
		return domain.FetchError()
	}
}

func parseClasses(row *goquery.Selection) map[string]int {
	seats := map[string]int{}
	row.Find(classSelector).Each(func(_ int, block *goquery.Selection) {
		code, ok := block.Attr("data-car-type")
		if !ok {
			return
		}
		index, err := strconv.Atoi(strings.TrimSpace(code))
		if err != nil || index < 0 || index >= len(domain.SeatClasses) {
			return
		}
		label := domain.SeatClasses[index]

		count, err := strconv.Atoi(strings.TrimSpace(block.Find("span").First().Text()))
		if err != nil {
			seats[label] = domain.UnboundedSeats
			return
		}
		if seats[label] == domain.UnboundedSeats {
			return
		}
		seats[label] += count
	})
	return seats
}

// secondsUntilDeparture reads the countdown the page renders for a row. A
// missing or malformed value counts as departed.
func secondsUntilDeparture(row *goquery.Selection) int {
	value, ok := row.Find(departureSelector).First().Attr("data-value")
	if !ok {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return seconds
}

func parseTrains(doc *goquery.Document) []domain.Train {
	var trains []domain.Train
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		number := strings.TrimSpace(row.Find("span.train-number").First().Text())
		if number == "" {
			return
		}
		trains = append(trains, domain.Train{
			Number:     number,
			TimeDepart: textOr(row.Find(`[data-sort="departure"]`).First(), missingTime),
			TimeArrive: textOr(row.Find(`[data-sort="arrival"]`).First(), missingTime),
		})
	})
	return trains
}

func textOr(selection *goquery.Selection, fallback string) string {
	if selection.Length() == 0 {
		return fallback
	}
	text := strings.TrimSpace(selection.Text())
	if text == "" {
		return fallback
	}
	return text
}

func cssEscape(value string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
}
