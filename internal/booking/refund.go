package booking

import (
	"math"
	"time"
)

// DaysUntilEvent returns the number of days from now until the event,
// rounded up. Same-day and past events yield zero or a negative value.
func DaysUntilEvent(eventDate, now time.Time) int {
	return int(math.Ceil(eventDate.Sub(now).Hours() / 24))
}

// RefundAmount computes the refund for a cancellation happening
// daysUntilEvent days before the event:
//
//	more than 7 days out: 90%
//	3 to 7 days out:      50%
//	2 days or less:       no refund
func RefundAmount(totalAmount int64, daysUntilEvent int) int64 {
	switch {
	case daysUntilEvent > 7:
		return roundCurrency(float64(totalAmount) * 0.9)
	case daysUntilEvent > 2:
		return roundCurrency(float64(totalAmount) * 0.5)
	default:
		return 0
	}
}
