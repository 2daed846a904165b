package event_bus

const (
	// EventTypeMonthOpened fires once when a user opens a month on the
	// dashboard, after the carry-forward check ran.
	EventTypeMonthOpened EventType = "month.opened"
)

type MonthOpened struct {
	Email string
	Month string
}
