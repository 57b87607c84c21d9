package booking

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bookmyhall/banquet-booking-backend/internal/events"
	"github.com/bookmyhall/banquet-booking-backend/internal/hall"
	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	UserID           string
	HallIDs          []string
	EventDate        time.Time
	TimeSlot         Slot
	GuestCount       int
	EventType        string
	EventDescription string
	Contact          Contact
	SpecialRequests  string
	AddOns           []AddOn
}

// UpdateRequest carries the fields the owning customer may change.
// Nil pointers leave the current value untouched.
type UpdateRequest struct {
	EventDate        *time.Time
	TimeSlot         *Slot
	GuestCount       *int
	EventType        *string
	EventDescription *string
	Contact          *Contact
	SpecialRequests  *string
	AddOns           *[]AddOn
}

// PaymentDetails records how an out-of-band payment was settled.
type PaymentDetails struct {
	Method        string
	TransactionID string
	PaidAmount    int64
}

// SlotAvailability is one entry of a day availability listing.
type SlotAvailability struct {
	SlotInfo
	Price       int64
	IsAvailable bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string, actor Actor) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateOwn(ctx context.Context, id string, req UpdateRequest, actor Actor) (*Booking, error)
	Cancel(ctx context.Context, id string, reason string, actor Actor) (*Booking, error)

	// ProcessTier applies one admin decision of the three-stage workflow.
	ProcessTier(ctx context.Context, id string, tier Tier, action Action, note string, actor Actor) (*Booking, error)

	// MarkPaymentComplete records an out-of-band payment and advances
	// payment-requested to approved-tier2.
	MarkPaymentComplete(ctx context.Context, id string, details PaymentDetails, actor Actor) (*Booking, error)

	// CompleteGatewayPayment is the gateway verify-success path; it advances
	// payment-requested to approved-tier2 on behalf of the payment gateway.
	CompleteGatewayPayment(ctx context.Context, id, orderID, paymentID string) (*Booking, error)

	// Confirm is the direct admin confirm path for manually settled
	// bookings, bypassing the staged tiers.
	Confirm(ctx context.Context, id string, details PaymentDetails, actor Actor) (*Booking, error)

	// Complete records a confirmed booking's event as held.
	Complete(ctx context.Context, id string, actor Actor) (*Booking, error)

	IsAvailable(ctx context.Context, hallIDs []string, date time.Time, slot Slot, excludeBookingID string) (bool, error)
	DayAvailability(ctx context.Context, hallID string, date time.Time) (*hall.Hall, []SlotAvailability, error)
}

type service struct {
	repo        Repository
	hallService hall.Service
	publisher   events.Publisher
}

func NewService(repo Repository, hallService hall.Service, publisher events.Publisher) Service {
	return &service{
		repo:        repo,
		hallService: hallService,
		publisher:   publisher,
	}
}

// generateCode builds a human-readable booking code: BK<YY><MM><4 digits>.
func generateCode(now time.Time) string {
	return fmt.Sprintf("BK%s%04d", now.Format("0601"), rand.Intn(10000))
}

// publish sends a lifecycle event; failures are logged, never propagated,
// since the booking mutation has already committed.
func (s *service) publish(routingKey string, b *Booking) {
	payload := events.BookingEvent{
		EventID:   uuid.NewString(),
		BookingID: b.ID,
		Code:      b.Code,
		UserID:    b.UserID,
		Status:    string(b.Status),
		EventDate: b.EventDate.Format("2006-01-02"),
		TimeSlot:  string(b.TimeSlot),
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		log.Printf("publish %s for booking %s failed: %v", routingKey, b.ID, err)
	}
}

// validateCapacity checks the guest count against the combined capacity
// window of the selected halls.
func validateCapacity(halls []*hall.Hall, guestCount int) error {
	totalMax := 0
	minRequired := halls[0].Capacity.Minimum
	for _, h := range halls {
		totalMax += h.Capacity.Maximum
		if h.Capacity.Minimum < minRequired {
			minRequired = h.Capacity.Minimum
		}
	}

	if guestCount > totalMax {
		return apperror.Newf(http.StatusBadRequest, "guest count exceeds combined capacity of %d", totalMax)
	}
	if guestCount < minRequired {
		return apperror.Newf(http.StatusBadRequest, "minimum guest count for selected halls is %d", minRequired)
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if len(req.HallIDs) == 0 {
		return nil, ErrNoHalls
	}
	if !req.TimeSlot.Valid() {
		return nil, ErrInvalidSlot
	}

	now := time.Now().UTC()
	if req.EventDate.Before(now.Truncate(24 * time.Hour)) {
		return nil, ErrEventDatePast
	}

	halls, err := s.hallService.GetActiveByIDs(ctx, req.HallIDs)
	if err != nil {
		return nil, err
	}

	if err := validateCapacity(halls, req.GuestCount); err != nil {
		return nil, err
	}

	conflict, err := s.repo.HasSlotConflict(ctx, req.HallIDs, req.EventDate, req.TimeSlot, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	pricing, err := ComputePrice(halls, req.TimeSlot, req.AddOns)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		Code:             generateCode(now),
		UserID:           req.UserID,
		EventDate:        req.EventDate,
		TimeSlot:         req.TimeSlot,
		EventType:        req.EventType,
		EventDescription: req.EventDescription,
		GuestCount:       req.GuestCount,
		Contact:          req.Contact,
		SpecialRequests:  req.SpecialRequests,
		AddOns:           req.AddOns,
		Pricing:          pricing,
		Payment:          Payment{Status: PaymentPending},
		Workflow: Workflow{
			Tier1: TierRecord{Status: TierPending},
			Tier2: TierRecord{Status: TierPending},
			Tier3: TierRecord{Status: TierPending},
		},
		Status: StatusActionPending,
	}
	for _, h := range halls {
		b.Halls = append(b.Halls, HallRef{ID: h.ID, Name: h.Name})
	}

	// The slot claims inside Create close the race window left open by the
	// advisory conflict check above.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingCreated, b)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A customer may only see their own bookings. Report not-found rather
	// than forbidden so the response does not reveal the booking exists.
	if !actor.Role.IsAdmin() && b.UserID != actor.ID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateOwn(ctx context.Context, id string, req UpdateRequest, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.ID {
		return nil, ErrNotFound
	}

	if !statusAllowed(b.Status, editableFrom) {
		return nil, errIllegalTransition(b.Status, ActionEdit)
	}

	previousStatus := b.Status

	scheduleChanged := false
	if req.EventDate != nil && !req.EventDate.Equal(b.EventDate) {
		now := time.Now().UTC()
		if req.EventDate.Before(now.Truncate(24 * time.Hour)) {
			return nil, ErrEventDatePast
		}
		b.EventDate = *req.EventDate
		scheduleChanged = true
	}
	if req.TimeSlot != nil && *req.TimeSlot != b.TimeSlot {
		if !req.TimeSlot.Valid() {
			return nil, ErrInvalidSlot
		}
		b.TimeSlot = *req.TimeSlot
		scheduleChanged = true
	}
	if req.GuestCount != nil {
		b.GuestCount = *req.GuestCount
	}
	if req.EventType != nil {
		b.EventType = *req.EventType
	}
	if req.EventDescription != nil {
		b.EventDescription = *req.EventDescription
	}
	if req.Contact != nil {
		b.Contact = *req.Contact
	}
	if req.SpecialRequests != nil {
		b.SpecialRequests = *req.SpecialRequests
	}
	if req.AddOns != nil {
		b.AddOns = *req.AddOns
	}

	// Re-resolve halls at write time; one may have been deactivated since
	// the booking was created.
	halls, err := s.hallService.GetActiveByIDs(ctx, b.HallIDs())
	if err != nil {
		return nil, err
	}
	if err := validateCapacity(halls, b.GuestCount); err != nil {
		return nil, err
	}

	if scheduleChanged {
		conflict, err := s.repo.HasSlotConflict(ctx, b.HallIDs(), b.EventDate, b.TimeSlot, b.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrSlotConflict
		}
	}

	// Pricing is recomputed unconditionally; the snapshot must never drift
	// from the halls/slot/add-ons it was derived from.
	pricing, err := ComputePrice(halls, b.TimeSlot, b.AddOns)
	if err != nil {
		return nil, err
	}
	b.Pricing = pricing

	// An edit answers a change request; the booking goes back in front of tier 1.
	if b.Status == StatusChangeRequested {
		b.Status = StatusActionPending
	}

	if err := s.repo.Update(ctx, b, previousStatus, scheduleChanged); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingUpdated, b)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, reason string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsAdmin() {
		if b.UserID != actor.ID {
			return nil, ErrNotFound
		}
	}

	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !statusAllowed(b.Status, cancellableFrom) {
		return nil, errIllegalTransition(b.Status, ActionCancel)
	}

	previousStatus := b.Status
	now := time.Now().UTC()

	b.Status = StatusCancelled
	b.Cancellation = Cancellation{
		CancelledAt:  &now,
		CancelledBy:  actor.ID,
		Reason:       reason,
		RefundAmount: RefundAmount(b.Pricing.TotalAmount, DaysUntilEvent(b.EventDate, now)),
		RefundStatus: "pending",
	}

	if err := s.repo.Update(ctx, b, previousStatus, false); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingCancelled, b)
	return b, nil
}

func (s *service) ProcessTier(ctx context.Context, id string, tier Tier, action Action, note string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t, err := resolveTierAction(tier, action, b.Status, actor.Role)
	if err != nil {
		return nil, err
	}

	previousStatus := b.Status
	now := time.Now().UTC()
	b.applyTierAction(tier, t, note, actor.ID, now)

	// Final approval stamps the confirmer.
	if b.Status == StatusConfirmed {
		b.ConfirmedBy = actor.ID
		b.ConfirmedAt = &now
	}

	if err := s.repo.Update(ctx, b, previousStatus, false); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingStatusChanged, b)
	return b, nil
}

func (s *service) MarkPaymentComplete(ctx context.Context, id string, details PaymentDetails, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !roleAllowed(actor.Role, tier2Roles) {
		return nil, ErrPermissionDenied
	}
	if b.Status != StatusPaymentRequested {
		return nil, errIllegalTransition(b.Status, ActionMarkPayment)
	}

	now := time.Now().UTC()
	paidAmount := details.PaidAmount
	if paidAmount <= 0 {
		paidAmount = b.Pricing.TotalAmount
	}

	b.Payment = Payment{
		Status:        PaymentPaid,
		Method:        details.Method,
		TransactionID: details.TransactionID,
		PaidAt:        &now,
		PaidAmount:    paidAmount,
	}
	b.Workflow.Tier2 = TierRecord{
		Status:      TierApproved,
		Note:        "payment marked complete",
		ProcessedBy: actor.ID,
		ProcessedAt: &now,
	}
	b.Status = StatusApprovedTier2

	if err := s.repo.Update(ctx, b, StatusPaymentRequested, false); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingStatusChanged, b)
	return b, nil
}

func (s *service) CompleteGatewayPayment(ctx context.Context, id, orderID, paymentID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.Status != StatusPaymentRequested {
		return nil, errIllegalTransition(b.Status, ActionMarkPayment)
	}

	now := time.Now().UTC()
	b.Payment = Payment{
		Status:        PaymentPaid,
		Method:        "online",
		TransactionID: paymentID,
		PaidAt:        &now,
		PaidAmount:    b.Pricing.TotalAmount,
	}
	b.Workflow.Tier2 = TierRecord{
		Status:      TierApproved,
		Note:        fmt.Sprintf("payment verified via gateway (order %s)", orderID),
		ProcessedAt: &now,
	}
	b.Status = StatusApprovedTier2

	if err := s.repo.Update(ctx, b, StatusPaymentRequested, false); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingStatusChanged, b)
	return b, nil
}

func (s *service) Confirm(ctx context.Context, id string, details PaymentDetails, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !roleAllowed(actor.Role, tier3Roles) {
		return nil, ErrPermissionDenied
	}
	if !statusAllowed(b.Status, confirmableFrom) {
		return nil, errIllegalTransition(b.Status, ActionConfirm)
	}

	previousStatus := b.Status
	now := time.Now().UTC()
	paidAmount := details.PaidAmount
	if paidAmount <= 0 {
		paidAmount = b.Pricing.TotalAmount
	}

	b.Payment = Payment{
		Status:        PaymentPaid,
		Method:        details.Method,
		TransactionID: details.TransactionID,
		PaidAt:        &now,
		PaidAmount:    paidAmount,
	}
	b.Status = StatusConfirmed
	b.ConfirmedBy = actor.ID
	b.ConfirmedAt = &now

	if err := s.repo.Update(ctx, b, previousStatus, false); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingStatusChanged, b)
	return b, nil
}

func (s *service) Complete(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !roleAllowed(actor.Role, tier3Roles) {
		return nil, ErrPermissionDenied
	}
	if b.Status != StatusConfirmed {
		return nil, errIllegalTransition(b.Status, ActionComplete)
	}

	b.Status = StatusCompleted

	if err := s.repo.Update(ctx, b, StatusConfirmed, false); err != nil {
		return nil, err
	}

	s.publish(events.KeyBookingStatusChanged, b)
	return b, nil
}

func (s *service) IsAvailable(ctx context.Context, hallIDs []string, date time.Time, slot Slot, excludeBookingID string) (bool, error) {
	if !slot.Valid() {
		return false, ErrInvalidSlot
	}
	conflict, err := s.repo.HasSlotConflict(ctx, hallIDs, date, slot, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *service) DayAvailability(ctx context.Context, hallID string, date time.Time) (*hall.Hall, []SlotAvailability, error) {
	h, err := s.hallService.GetByID(ctx, hallID)
	if err != nil {
		return nil, nil, err
	}

	booked, err := s.repo.BookedSlots(ctx, hallID, date)
	if err != nil {
		return nil, nil, err
	}

	listing := make([]SlotAvailability, 0, len(AllSlots))
	for _, info := range AllSlots {
		price, err := h.PriceForSlot(string(info.ID))
		if err != nil {
			return nil, nil, err
		}

		available := true
		for _, taken := range booked {
			if SlotsConflict(info.ID, taken) {
				available = false
				break
			}
		}

		listing = append(listing, SlotAvailability{
			SlotInfo:    info,
			Price:       price,
			IsAvailable: available,
		})
	}

	return h, listing, nil
}
