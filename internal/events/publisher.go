package events

// Routing keys for booking lifecycle events.
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingUpdated       = "booking.updated"
	KeyBookingCancelled     = "booking.cancelled"
	KeyBookingStatusChanged = "booking.status-changed"
)

// BookingEvent is the payload published on every booking lifecycle event.
// EventID makes redeliveries detectable for downstream consumers.
type BookingEvent struct {
	EventID   string `json:"event_id"`
	BookingID string `json:"booking_id"`
	Code      string `json:"code"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	EventDate string `json:"event_date"`
	TimeSlot  string `json:"time_slot"`
}

// Publisher emits booking lifecycle events for downstream consumers
// (notifications, invoicing). Publishing is best-effort: the booking
// mutation has already committed when an event goes out.
type Publisher interface {
	Publish(routingKey string, payload any) error
	Close()
}

// NopPublisher discards all events. Used in tests and in deployments
// without a message broker.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }
func (NopPublisher) Close()                    {}
