package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookmyhall/banquet-booking-backend/internal/auth"
	"github.com/bookmyhall/banquet-booking-backend/internal/booking"
	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/request"
	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/response"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   auth.GetUserID(c),
		Role: user.Role(auth.GetUserRole(c)),
	}
}

func bindID(c *gin.Context) (string, bool) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return "", false
	}
	return req.ID, true
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := booking.CreateRequest{
		UserID:           auth.GetUserID(c),
		HallIDs:          body.HallIDs,
		EventDate:        parseDate(body.EventDate),
		TimeSlot:         booking.Slot(body.TimeSlot),
		GuestCount:       body.GuestCount,
		EventType:        body.EventType,
		EventDescription: body.EventDescription,
		Contact: booking.Contact{
			Name:           body.Contact.Name,
			Phone:          body.Contact.Phone,
			Email:          body.Contact.Email,
			AlternatePhone: body.Contact.AlternatePhone,
		},
		SpecialRequests: body.SpecialRequests,
		AddOns:          toAddOns(body.AddOns),
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) list(c *gin.Context, forceUserID string) {
	var query ListBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		UserID:    forceUserID,
		HallID:    query.HallID,
		Status:    query.Status,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if query.DateFrom != "" {
		from := parseDate(query.DateFrom)
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to := parseDate(query.DateTo)
		filter.DateTo = &to
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// List is the admin listing across all customers.
func (h *Handler) List(c *gin.Context) {
	h.list(c, "")
}

// ListMine lists the calling customer's own bookings.
func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, auth.GetUserID(c))
}

func (h *Handler) UpdateOwn(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var body UpdateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	var req booking.UpdateRequest
	if body.EventDate != nil {
		date := parseDate(*body.EventDate)
		req.EventDate = &date
	}
	if body.TimeSlot != nil {
		slot := booking.Slot(*body.TimeSlot)
		req.TimeSlot = &slot
	}
	req.GuestCount = body.GuestCount
	req.EventType = body.EventType
	req.EventDescription = body.EventDescription
	if body.Contact != nil {
		req.Contact = &booking.Contact{
			Name:           body.Contact.Name,
			Phone:          body.Contact.Phone,
			Email:          body.Contact.Email,
			AlternatePhone: body.Contact.AlternatePhone,
		}
	}
	req.SpecialRequests = body.SpecialRequests
	if body.AddOns != nil {
		addOns := toAddOns(*body.AddOns)
		req.AddOns = &addOns
	}

	b, err := h.service.UpdateOwn(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var body CancelBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, body.Reason, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) tierAction(c *gin.Context, tier booking.Tier) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var body TierActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.ProcessTier(c.Request.Context(), id, tier, booking.Action(body.Action), body.Note, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Tier1(c *gin.Context) { h.tierAction(c, booking.Tier1) }
func (h *Handler) Tier2(c *gin.Context) { h.tierAction(c, booking.Tier2) }
func (h *Handler) Tier3(c *gin.Context) { h.tierAction(c, booking.Tier3) }

func (h *Handler) MarkPayment(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var body MarkPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	details := booking.PaymentDetails{
		Method:        body.Method,
		TransactionID: body.TransactionID,
		PaidAmount:    body.PaidAmount,
	}

	b, err := h.service.MarkPaymentComplete(c.Request.Context(), id, details, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Confirm is the direct confirmation path for bookings settled outside the
// staged workflow, e.g. walk-in customers paying at the counter.
func (h *Handler) Confirm(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var body MarkPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	details := booking.PaymentDetails{
		Method:        body.Method,
		TransactionID: body.TransactionID,
		PaidAmount:    body.PaidAmount,
	}

	b, err := h.service.Confirm(c.Request.Context(), id, details, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	b, err := h.service.Complete(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

type checkAvailabilityQuery struct {
	HallID string `form:"hall_id" binding:"required,uuid"`
	Date   string `form:"date" binding:"required,datetime=2006-01-02"`
	Slot   string `form:"slot" binding:"omitempty,oneof=morning afternoon evening full-day"`
}

// CheckAvailability is public: it returns the day's slot listing for a hall,
// or, when a slot is given, just that slot's availability.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var query checkAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	date := parseDate(query.Date)

	if query.Slot != "" {
		available, err := h.service.IsAvailable(c.Request.Context(), []string{query.HallID}, date, booking.Slot(query.Slot), "")
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"hall_id":      query.HallID,
			"date":         query.Date,
			"slot":         query.Slot,
			"is_available": available,
		})
		return
	}

	hallInfo, listing, err := h.service.DayAvailability(c.Request.Context(), query.HallID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots := make([]SlotAvailabilityResponse, len(listing))
	for i, s := range listing {
		slots[i] = SlotAvailabilityResponse{
			ID:          string(s.ID),
			Label:       s.Label,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Price:       s.Price,
			IsAvailable: s.IsAvailable,
		}
	}

	c.JSON(http.StatusOK, DayAvailabilityResponse{
		Hall:  HallTag{ID: hallInfo.ID, Name: hallInfo.Name},
		Date:  query.Date,
		Slots: slots,
	})
}
