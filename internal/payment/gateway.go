package payment

import (
	"context"
	"net/http"

	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/apperror"
)

var (
	ErrGatewayUnavailable   = apperror.New(http.StatusBadGateway, "payment gateway is unavailable")
	ErrVerificationFailed   = apperror.New(http.StatusBadRequest, "payment verification failed")
	ErrGatewayNotConfigured = apperror.New(http.StatusServiceUnavailable, "online payments are not configured")
)

// Order is a payment order created with the gateway. The customer completes
// it on the gateway's checkout; the result comes back through Verify.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`   // whole currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway is the payment collaborator contract. Signature verification is
// delegated entirely to the gateway implementation; the workflow only
// consumes the boolean result.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	Verify(orderID, paymentID, signature string) bool
}
