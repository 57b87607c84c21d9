package booking

import (
	"net/http"
	"time"

	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/apperror"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrSlotConflict     = apperror.New(http.StatusConflict, "one or more halls are already booked for this slot")
	ErrStaleState       = apperror.New(http.StatusConflict, "booking was modified concurrently, please retry")
	ErrAlreadyCancelled = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidSlot      = apperror.New(http.StatusBadRequest, "invalid time slot")
	ErrInvalidAction    = apperror.New(http.StatusBadRequest, "invalid workflow action")
	ErrEventDatePast    = apperror.New(http.StatusBadRequest, "event date cannot be in the past")
	ErrNoHalls          = apperror.New(http.StatusBadRequest, "at least one hall must be selected")
)

// errIllegalTransition names the current state and the attempted action,
// so callers can tell a workflow race from a bad request.
func errIllegalTransition(current Status, action Action) *apperror.AppError {
	return apperror.Newf(http.StatusConflict, "action %q is not allowed while booking is %q", action, current)
}

// Status is the top-level booking state, the single source of truth for
// what the booking is system-wide.
type Status string

const (
	StatusActionPending    Status = "action-pending"
	StatusChangeRequested  Status = "change-requested"
	StatusApprovedTier1    Status = "approved-tier1"
	StatusPaymentRequested Status = "payment-requested"
	StatusApprovedTier2    Status = "approved-tier2"
	StatusConfirmed        Status = "confirmed"
	StatusRejected         Status = "rejected"
	StatusCancelled        Status = "cancelled"
	StatusCompleted        Status = "completed"
)

// IsTerminal reports whether no workflow-advancing action may follow.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Tier identifies one stage of the three-tier approval chain.
type Tier int

const (
	Tier1 Tier = 1 // document analysis
	Tier2 Tier = 2 // availability & payment
	Tier3 Tier = 3 // final approval
)

// TierStatus is a per-tier sub-status. The vocabulary differs per tier;
// the workflow table in workflow.go is authoritative for which values
// each tier may take.
type TierStatus string

const (
	TierPending          TierStatus = "pending"
	TierApproved         TierStatus = "approved"
	TierRejected         TierStatus = "rejected"
	TierChangesRequested TierStatus = "changes-requested"
	TierPaymentRequested TierStatus = "payment-requested"
)

// TierRecord is the decision log of a single approval tier.
type TierRecord struct {
	Status      TierStatus
	Note        string
	ProcessedBy string // admin user ID, empty when the tier has not acted
	ProcessedAt *time.Time
}

// Workflow holds the three independent tier records.
type Workflow struct {
	Tier1 TierRecord
	Tier2 TierRecord
	Tier3 TierRecord
}

func (w *Workflow) record(t Tier) *TierRecord {
	switch t {
	case Tier1:
		return &w.Tier1
	case Tier2:
		return &w.Tier2
	default:
		return &w.Tier3
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment is the payment sub-state of a booking.
type Payment struct {
	Status        PaymentStatus
	Method        string
	TransactionID string
	PaidAt        *time.Time
	PaidAmount    int64
}

// Pricing is the snapshot computed at creation/update time. It is never
// silently recomputed; every operation that changes halls, slot or add-ons
// must call ComputePrice again.
type Pricing struct {
	BasePrice   int64
	Discount    int64
	Taxes       int64
	TotalAmount int64
}

// AddOn is an optional extra with a non-negative price.
type AddOn struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Contact holds the customer's contact details for the event.
type Contact struct {
	Name           string
	Phone          string
	Email          string
	AlternatePhone string
}

// Cancellation is populated only when the booking is cancelled.
type Cancellation struct {
	CancelledAt  *time.Time
	CancelledBy  string
	Reason       string
	RefundAmount int64
	RefundStatus string // pending, processed, completed, rejected
}

// HallRef is a lightweight reference to a booked hall.
type HallRef struct {
	ID   string
	Name string
}

// Booking is the central aggregate.
type Booking struct {
	ID     string // UUID
	Code   string // human-readable, e.g. BK25080042
	UserID string // owner, immutable after creation
	Halls  []HallRef

	EventDate        time.Time // calendar date, time of day irrelevant
	TimeSlot         Slot
	EventType        string
	EventDescription string
	GuestCount       int
	Contact          Contact
	SpecialRequests  string
	AddOns           []AddOn

	Pricing  Pricing
	Payment  Payment
	Workflow Workflow
	Status   Status

	AdminNotes   string
	Cancellation Cancellation
	ConfirmedBy  string
	ConfirmedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HallIDs returns the IDs of the booked halls.
func (b *Booking) HallIDs() []string {
	ids := make([]string, len(b.Halls))
	for i, h := range b.Halls {
		ids[i] = h.ID
	}
	return ids
}

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role user.Role
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID   string
	HallID   string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
