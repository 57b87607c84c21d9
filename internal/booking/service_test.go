package booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmyhall/banquet-booking-backend/internal/events"
	"github.com/bookmyhall/banquet-booking-backend/internal/hall"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

// fakeRepo keeps bookings in memory and mimics the repository's conditional
// update semantics.
type fakeRepo struct {
	bookings  map[string]*Booking
	conflict  bool
	updateErr error
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*Booking{}}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	if r.conflict {
		return ErrSlotConflict
	}
	r.nextID++
	b.ID = fmt.Sprintf("booking-%d", r.nextID)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		cp := *b
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) HasSlotConflict(_ context.Context, _ []string, _ time.Time, _ Slot, _ string) (bool, error) {
	return r.conflict, nil
}

func (r *fakeRepo) BookedSlots(_ context.Context, hallID string, date time.Time) ([]Slot, error) {
	var slots []Slot
	for _, b := range r.bookings {
		if b.Status == StatusCancelled || b.Status == StatusRejected {
			continue
		}
		if !b.EventDate.Equal(date) {
			continue
		}
		for _, h := range b.Halls {
			if h.ID == hallID {
				slots = append(slots, b.TimeSlot)
			}
		}
	}
	return slots, nil
}

func (r *fakeRepo) Update(_ context.Context, b *Booking, expectedStatus Status, _ bool) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.bookings[b.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != expectedStatus {
		return ErrStaleState
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

type fakeHallService struct {
	halls map[string]*hall.Hall
}

func (s *fakeHallService) GetByID(_ context.Context, id string) (*hall.Hall, error) {
	h, ok := s.halls[id]
	if !ok {
		return nil, hall.ErrNotFound
	}
	return h, nil
}

func (s *fakeHallService) GetActiveByIDs(_ context.Context, ids []string) ([]*hall.Hall, error) {
	out := make([]*hall.Hall, 0, len(ids))
	for _, id := range ids {
		h, ok := s.halls[id]
		if !ok {
			return nil, hall.ErrNotFound
		}
		if !h.IsActive {
			return nil, hall.ErrInactive
		}
		out = append(out, h)
	}
	return out, nil
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	halls := &fakeHallService{halls: map[string]*hall.Hall{
		"hall-a": testHall("hall-a", 40000),
		"hall-b": testHall("hall-b", 50000),
	}}
	return NewService(repo, halls, events.NopPublisher{}), repo
}

func eventDateDaysOut(days int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, days)
}

func createRequest(hallIDs ...string) CreateRequest {
	return CreateRequest{
		UserID:     "customer-1",
		HallIDs:    hallIDs,
		EventDate:  eventDateDaysOut(10),
		TimeSlot:   SlotEvening,
		GuestCount: 200,
		EventType:  "wedding",
		Contact: Contact{
			Name:  "Asha Rao",
			Phone: "9876543210",
			Email: "asha@example.com",
		},
	}
}

var (
	customer   = Actor{ID: "customer-1", Role: user.RoleCustomer}
	stranger   = Actor{ID: "customer-2", Role: user.RoleCustomer}
	admin1     = Actor{ID: "admin-1", Role: user.RoleAdmin1}
	admin2     = Actor{ID: "admin-2", Role: user.RoleAdmin2}
	admin3     = Actor{ID: "admin-3", Role: user.RoleAdmin3}
	superAdmin = Actor{ID: "super-1", Role: user.RoleSuperAdmin}
)

func TestCreateBooking(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.Create(context.Background(), createRequest("hall-a"))
	require.NoError(t, err)

	assert.Equal(t, StatusActionPending, b.Status)
	assert.Equal(t, PaymentPending, b.Payment.Status)
	assert.Equal(t, TierPending, b.Workflow.Tier1.Status)
	assert.Equal(t, TierPending, b.Workflow.Tier2.Status)
	assert.Equal(t, TierPending, b.Workflow.Tier3.Status)
	assert.True(t, strings.HasPrefix(b.Code, "BK"), b.Code)
	assert.Len(t, b.Halls, 1)

	// 40000 evening, no discount, 18% tax.
	assert.Equal(t, int64(47200), b.Pricing.TotalAmount)
}

func TestCreateBookingMultiHallDiscount(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.Create(context.Background(), createRequest("hall-a", "hall-b"))
	require.NoError(t, err)

	assert.Equal(t, int64(90000), b.Pricing.BasePrice)
	assert.Equal(t, int64(4500), b.Pricing.Discount)
	assert.Equal(t, int64(100890), b.Pricing.TotalAmount)
}

func TestCreateBookingSlotConflict(t *testing.T) {
	svc, repo := newTestService(t)
	repo.conflict = true

	_, err := svc.Create(context.Background(), createRequest("hall-a"))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest("hall-a")
	req.GuestCount = 10000
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	req.GuestCount = 10
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestCreateBookingPastDate(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest("hall-a")
	req.EventDate = eventDateDaysOut(-1)
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrEventDatePast)
}

func TestWorkflowEndToEnd(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	b, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "documents fine", admin1)
	require.NoError(t, err)
	assert.Equal(t, StatusApprovedTier1, b.Status)

	b, err = svc.ProcessTier(ctx, b.ID, Tier2, ActionRequestPayment, "please pay", admin2)
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentRequested, b.Status)

	b, err = svc.MarkPaymentComplete(ctx, b.ID, PaymentDetails{Method: "cash"}, admin2)
	require.NoError(t, err)
	assert.Equal(t, StatusApprovedTier2, b.Status)
	assert.Equal(t, PaymentPaid, b.Payment.Status)
	// Paid amount defaults to the booking total.
	assert.Equal(t, b.Pricing.TotalAmount, b.Payment.PaidAmount)

	b, err = svc.ProcessTier(ctx, b.ID, Tier3, ActionApprove, "", admin3)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, admin3.ID, b.ConfirmedBy)
	require.NotNil(t, b.ConfirmedAt)

	b, err = svc.Complete(ctx, b.ID, admin3)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, b.Status)
}

func TestRejectionStopsWorkflow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	b, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionReject, "documents missing", admin1)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, b.Status)

	// Later tiers cannot act on a rejected booking.
	_, err = svc.ProcessTier(ctx, b.ID, Tier2, ActionApprove, "", admin2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ProcessTier(ctx, b.ID, Tier3, ActionApprove, "", admin3)
	require.Error(t, err)
}

func TestProcessTierPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "", customer)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "", admin2)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "", superAdmin)
	assert.NoError(t, err)
}

func TestGetByIDHidesForeignBookings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	// Another customer gets not-found, not forbidden.
	_, err = svc.GetByID(ctx, b.ID, stranger)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetByID(ctx, b.ID, admin1)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestUpdateOwnResetsChangeRequested(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionRequestChanges, "provide id proof", admin1)
	require.NoError(t, err)

	eventType := "reception"
	updated, err := svc.UpdateOwn(ctx, b.ID, UpdateRequest{EventType: &eventType}, customer)
	require.NoError(t, err)

	assert.Equal(t, "reception", updated.EventType)
	assert.Equal(t, StatusActionPending, updated.Status)
}

func TestUpdateOwnRepricesScheduleChange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	slot := SlotFullDay
	updated, err := svc.UpdateOwn(ctx, b.ID, UpdateRequest{TimeSlot: &slot}, customer)
	require.NoError(t, err)

	// 80000 full-day, 18% tax.
	assert.Equal(t, int64(94400), updated.Pricing.TotalAmount)
}

func TestUpdateOwnLockedAfterTier1(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "", admin1)
	require.NoError(t, err)

	eventType := "reception"
	_, err = svc.UpdateOwn(ctx, b.ID, UpdateRequest{EventType: &eventType}, customer)
	require.Error(t, err)
}

func TestUpdateOwnForeignBookingHidden(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	eventType := "reception"
	_, err = svc.UpdateOwn(ctx, b.ID, UpdateRequest{EventType: &eventType}, stranger)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelRefundPolicy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID, "plans changed", customer)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, "pending", cancelled.Cancellation.RefundStatus)
	// Ten days out: 90% of 47200.
	assert.Equal(t, int64(42480), cancelled.Cancellation.RefundAmount)

	_, err = svc.Cancel(ctx, b.ID, "again", customer)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelConfirmedAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, b.ID, PaymentDetails{Method: "cash"}, admin3)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID, "venue unusable", admin3)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestCancelCompletedDenied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, b.ID, PaymentDetails{Method: "cash"}, admin3)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, b.ID, admin3)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, "too late", admin3)
	require.Error(t, err)
}

func TestDirectConfirm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, b.ID, PaymentDetails{Method: "upi", TransactionID: "txn-1"}, superAdmin)
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, PaymentPaid, confirmed.Payment.Status)
	assert.Equal(t, superAdmin.ID, confirmed.ConfirmedBy)

	// Customers cannot use the direct path.
	b2, err := svc.Create(ctx, createRequest("hall-b"))
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, b2.ID, PaymentDetails{Method: "cash"}, customer)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGatewayPaymentAdvancesWorkflow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	// Gateway payment only applies while payment is requested.
	_, err = svc.CompleteGatewayPayment(ctx, b.ID, "order-1", "pay-1")
	require.Error(t, err)

	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "", admin1)
	require.NoError(t, err)
	_, err = svc.ProcessTier(ctx, b.ID, Tier2, ActionRequestPayment, "", admin2)
	require.NoError(t, err)

	paid, err := svc.CompleteGatewayPayment(ctx, b.ID, "order-1", "pay-1")
	require.NoError(t, err)
	assert.Equal(t, StatusApprovedTier2, paid.Status)
	assert.Equal(t, "online", paid.Payment.Method)
	assert.Equal(t, "pay-1", paid.Payment.TransactionID)
}

func TestConcurrentTransitionSurfacesStaleState(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest("hall-a"))
	require.NoError(t, err)

	repo.updateErr = ErrStaleState
	_, err = svc.ProcessTier(ctx, b.ID, Tier1, ActionApprove, "", admin1)
	assert.ErrorIs(t, err, ErrStaleState)
}

func TestDayAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := createRequest("hall-a")
	req.TimeSlot = SlotMorning
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	h, listing, err := svc.DayAvailability(ctx, "hall-a", req.EventDate)
	require.NoError(t, err)
	assert.Equal(t, "hall-a", h.ID)
	require.Len(t, listing, 4)

	bySlot := map[Slot]SlotAvailability{}
	for _, entry := range listing {
		bySlot[entry.ID] = entry
	}

	assert.False(t, bySlot[SlotMorning].IsAvailable)
	assert.True(t, bySlot[SlotAfternoon].IsAvailable)
	assert.True(t, bySlot[SlotEvening].IsAvailable)
	// Full-day is blocked by the morning booking.
	assert.False(t, bySlot[SlotFullDay].IsAvailable)
}
