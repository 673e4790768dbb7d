package domain

type SessionStep string

const (
	StepIdle        SessionStep = "idle"
	StepOrigin      SessionStep = "origin"
	StepDestination SessionStep = "destination"
	StepDate        SessionStep = "date"
)

// Session is the conversational search state of one chat.
type Session struct {
	ChatID   int64       `json:"-"`
	Step     SessionStep `json:"step"`
	CityFrom string      `json:"city_from,omitempty"`
	CityTo   string      `json:"city_to,omitempty"`
	Date     string      `json:"date,omitempty"`
	URL      string      `json:"url,omitempty"`
}
