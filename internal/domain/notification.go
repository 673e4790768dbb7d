package domain

type NotificationKind string

const (
	NotificationChanged NotificationKind = "changed"
	NotificationEnded   NotificationKind = "ended"
)

type Notification struct {
	Kind        NotificationKind
	TrainNumber string
	RouteDate   string
	URL         string
	Snapshot    Snapshot
}
