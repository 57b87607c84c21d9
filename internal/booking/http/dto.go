package http

import (
	"time"

	"github.com/bookmyhall/banquet-booking-backend/internal/booking"
	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/request"
)

const dateLayout = "2006-01-02"

type ContactBody struct {
	Name           string `json:"name" binding:"required,max=100"`
	Phone          string `json:"phone" binding:"required,len=10,numeric"`
	Email          string `json:"email" binding:"required,email"`
	AlternatePhone string `json:"alternate_phone" binding:"omitempty,len=10,numeric"`
}

type AddOnBody struct {
	Name  string `json:"name" binding:"required,max=100"`
	Price int64  `json:"price" binding:"min=0"`
}

func toAddOns(in []AddOnBody) []booking.AddOn {
	if in == nil {
		return nil
	}
	out := make([]booking.AddOn, len(in))
	for i, a := range in {
		out[i] = booking.AddOn{Name: a.Name, Price: a.Price}
	}
	return out
}

type CreateBookingBody struct {
	HallIDs          []string     `json:"halls" binding:"required,min=1,dive,uuid"`
	EventDate        string       `json:"event_date" binding:"required,datetime=2006-01-02"`
	TimeSlot         string       `json:"time_slot" binding:"required,oneof=morning afternoon evening full-day"`
	GuestCount       int          `json:"guest_count" binding:"required,min=1"`
	EventType        string       `json:"event_type" binding:"required,max=100"`
	EventDescription string       `json:"event_description" binding:"omitempty,max=500"`
	Contact          ContactBody  `json:"contact_details" binding:"required"`
	SpecialRequests  string       `json:"special_requests" binding:"omitempty,max=1000"`
	AddOns           []AddOnBody  `json:"add_ons" binding:"omitempty,dive"`
}

type UpdateBookingBody struct {
	EventDate        *string      `json:"event_date" binding:"omitempty,datetime=2006-01-02"`
	TimeSlot         *string      `json:"time_slot" binding:"omitempty,oneof=morning afternoon evening full-day"`
	GuestCount       *int         `json:"guest_count" binding:"omitempty,min=1"`
	EventType        *string      `json:"event_type" binding:"omitempty,max=100"`
	EventDescription *string      `json:"event_description" binding:"omitempty,max=500"`
	Contact          *ContactBody `json:"contact_details"`
	SpecialRequests  *string      `json:"special_requests" binding:"omitempty,max=1000"`
	AddOns           *[]AddOnBody `json:"add_ons" binding:"omitempty,dive"`
}

// TierActionBody carries an admin's workflow decision. The legal actions
// differ per tier; the service validates them against the transition table.
type TierActionBody struct {
	Action string `json:"action" binding:"required,oneof=approve reject request-changes request-payment"`
	Note   string `json:"note" binding:"omitempty,max=1000"`
}

type MarkPaymentBody struct {
	Method        string `json:"method" binding:"required,oneof=cash card upi bank_transfer online"`
	TransactionID string `json:"transaction_id" binding:"omitempty,max=100"`
	PaidAmount    int64  `json:"paid_amount" binding:"omitempty,min=1"`
}

type CancelBookingBody struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type ListBookingsRequest struct {
	request.ListParams
	Status   string `form:"status" binding:"omitempty,oneof=action-pending change-requested approved-tier1 payment-requested approved-tier2 confirmed rejected cancelled completed"`
	HallID   string `form:"hall_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=created_at event_date status total_amount"`
}

type HallTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TierRecordResponse struct {
	Status      string     `json:"status"`
	Note        string     `json:"note,omitempty"`
	ProcessedBy string     `json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type PricingResponse struct {
	BasePrice   int64 `json:"base_price"`
	Discount    int64 `json:"discount"`
	Taxes       int64 `json:"taxes"`
	TotalAmount int64 `json:"total_amount"`
}

type PaymentResponse struct {
	Status        string     `json:"status"`
	Method        string     `json:"method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaidAmount    int64      `json:"paid_amount"`
}

type CancellationResponse struct {
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy  string     `json:"cancelled_by,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	RefundAmount int64      `json:"refund_amount"`
	RefundStatus string     `json:"refund_status,omitempty"`
}

type BookingResponse struct {
	ID               string               `json:"id"`
	Code             string               `json:"code"`
	UserID           string               `json:"user_id"`
	Halls            []HallTag            `json:"halls"`
	EventDate        string               `json:"event_date"`
	TimeSlot         string               `json:"time_slot"`
	EventType        string               `json:"event_type"`
	EventDescription string               `json:"event_description,omitempty"`
	GuestCount       int                  `json:"guest_count"`
	ContactName      string               `json:"contact_name"`
	ContactPhone     string               `json:"contact_phone"`
	ContactEmail     string               `json:"contact_email"`
	AlternatePhone   string               `json:"alternate_phone,omitempty"`
	SpecialRequests  string               `json:"special_requests,omitempty"`
	AddOns           []booking.AddOn      `json:"add_ons,omitempty"`
	Pricing          PricingResponse      `json:"pricing"`
	Payment          PaymentResponse      `json:"payment"`
	Status           string               `json:"status"`
	Tier1            TierRecordResponse   `json:"tier1"`
	Tier2            TierRecordResponse   `json:"tier2"`
	Tier3            TierRecordResponse   `json:"tier3"`
	Cancellation     CancellationResponse `json:"cancellation"`
	ConfirmedBy      string               `json:"confirmed_by,omitempty"`
	ConfirmedAt      *time.Time           `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func newTierRecordResponse(r booking.TierRecord) TierRecordResponse {
	return TierRecordResponse{
		Status:      string(r.Status),
		Note:        r.Note,
		ProcessedBy: r.ProcessedBy,
		ProcessedAt: r.ProcessedAt,
	}
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	halls := make([]HallTag, len(b.Halls))
	for i, h := range b.Halls {
		halls[i] = HallTag{ID: h.ID, Name: h.Name}
	}

	return BookingResponse{
		ID:               b.ID,
		Code:             b.Code,
		UserID:           b.UserID,
		Halls:            halls,
		EventDate:        b.EventDate.Format(dateLayout),
		TimeSlot:         string(b.TimeSlot),
		EventType:        b.EventType,
		EventDescription: b.EventDescription,
		GuestCount:       b.GuestCount,
		ContactName:      b.Contact.Name,
		ContactPhone:     b.Contact.Phone,
		ContactEmail:     b.Contact.Email,
		AlternatePhone:   b.Contact.AlternatePhone,
		SpecialRequests:  b.SpecialRequests,
		AddOns:           b.AddOns,
		Pricing: PricingResponse{
			BasePrice:   b.Pricing.BasePrice,
			Discount:    b.Pricing.Discount,
			Taxes:       b.Pricing.Taxes,
			TotalAmount: b.Pricing.TotalAmount,
		},
		Payment: PaymentResponse{
			Status:        string(b.Payment.Status),
			Method:        b.Payment.Method,
			TransactionID: b.Payment.TransactionID,
			PaidAt:        b.Payment.PaidAt,
			PaidAmount:    b.Payment.PaidAmount,
		},
		Status: string(b.Status),
		Tier1:  newTierRecordResponse(b.Workflow.Tier1),
		Tier2:  newTierRecordResponse(b.Workflow.Tier2),
		Tier3:  newTierRecordResponse(b.Workflow.Tier3),
		Cancellation: CancellationResponse{
			CancelledAt:  b.Cancellation.CancelledAt,
			CancelledBy:  b.Cancellation.CancelledBy,
			Reason:       b.Cancellation.Reason,
			RefundAmount: b.Cancellation.RefundAmount,
			RefundStatus: b.Cancellation.RefundStatus,
		},
		ConfirmedBy: b.ConfirmedBy,
		ConfirmedAt: b.ConfirmedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type SlotAvailabilityResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Price       int64  `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

type DayAvailabilityResponse struct {
	Hall  HallTag                    `json:"hall"`
	Date  string                     `json:"date"`
	Slots []SlotAvailabilityResponse `json:"slots"`
}
