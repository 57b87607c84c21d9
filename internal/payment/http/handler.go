package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookmyhall/banquet-booking-backend/internal/auth"
	"github.com/bookmyhall/banquet-booking-backend/internal/booking"
	"github.com/bookmyhall/banquet-booking-backend/internal/payment"
	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/response"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

type Handler struct {
	gateway        payment.Gateway
	bookingService booking.Service
}

func NewHandler(gateway payment.Gateway, bookingService booking.Service) *Handler {
	return &Handler{
		gateway:        gateway,
		bookingService: bookingService,
	}
}

func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   auth.GetUserID(c),
		Role: user.Role(auth.GetUserRole(c)),
	}
}

// CreateOrder opens a gateway order for the booking's total amount. Only
// meaningful while payment has been requested, but the gateway order itself
// does not mutate the booking.
func (h *Handler) CreateOrder(c *gin.Context) {
	var body CreateOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.bookingService.GetByID(c.Request.Context(), body.BookingID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.gateway.CreateOrder(c.Request.Context(), b.Pricing.TotalAmount, "INR", "receipt_"+b.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, OrderResponse{Order: order})
}

// Verify consumes the gateway's signature verdict. On success the booking
// advances from payment-requested to approved-tier2; on failure the booking
// is left untouched and the failure is reported.
func (h *Handler) Verify(c *gin.Context) {
	var body VerifyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	// Ensure the caller can see the booking before touching the gateway.
	if _, err := h.bookingService.GetByID(c.Request.Context(), body.BookingID, actorFrom(c)); err != nil {
		response.Error(c, err)
		return
	}

	if !h.gateway.Verify(body.OrderID, body.PaymentID, body.Signature) {
		response.Error(c, payment.ErrVerificationFailed)
		return
	}

	b, err := h.bookingService.CompleteGatewayPayment(c.Request.Context(), body.BookingID, body.OrderID, body.PaymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment verified",
		"status":  string(b.Status),
	})
}
