package http

import "github.com/bookmyhall/banquet-booking-backend/internal/payment"

type CreateOrderRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

type OrderResponse struct {
	Order *payment.Order `json:"order"`
}

type VerifyRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
