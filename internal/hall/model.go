package hall

import (
	"net/http"
	"time"

	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "hall not found")
	ErrInactive    = apperror.New(http.StatusBadRequest, "hall is not available for booking")
	ErrNoSlotPrice = apperror.New(http.StatusInternalServerError, "hall has no price configured for the requested slot")
)

// Capacity is the guest range a hall accommodates.
type Capacity struct {
	Minimum int
	Maximum int
}

// Pricing holds the per-slot prices in whole currency units.
type Pricing struct {
	Morning   int64
	Afternoon int64
	Evening   int64
	FullDay   int64
}

// Hall represents a bookable banquet hall. The booking core only reads halls;
// hall lifecycle is owned by the catalog service.
type Hall struct {
	ID        string // UUID
	Name      string
	Capacity  Capacity
	Pricing   Pricing
	IsActive  bool
	CreatedAt time.Time
}

// PriceForSlot returns the hall's price for the given slot id (morning,
// afternoon, evening, full-day). An unknown slot or a non-positive configured
// price is a configuration error, never silently treated as zero.
func (h *Hall) PriceForSlot(slot string) (int64, error) {
	var price int64
	switch slot {
	case "morning":
		price = h.Pricing.Morning
	case "afternoon":
		price = h.Pricing.Afternoon
	case "evening":
		price = h.Pricing.Evening
	case "full-day":
		price = h.Pricing.FullDay
	default:
		return 0, ErrNoSlotPrice
	}
	if price <= 0 {
		return 0, ErrNoSlotPrice
	}
	return price, nil
}
