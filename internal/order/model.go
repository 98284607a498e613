package order

import (
	"time"

	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/payment"
)

// ServiceFee is the flat fee added to every order.
const ServiceFee = 5.0

type Status string

const (
	StatusProcessing     Status = "Processing"
	StatusReadyForPickup Status = "Ready for Pickup"
	StatusCollected      Status = "Collected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusReadyForPickup, StatusCollected:
		return true
	}
	return false
}

// Order is the immutable checkout snapshot kept under the session's
// lastOrder key.
type Order struct {
	ID            string          `json:"id"`
	Items         []cart.CartItem `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	ServiceFee    float64         `json:"serviceFee"`
	Total         float64         `json:"total"`
	Locker        catalog.Locker  `json:"locker"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	PaymentMethod payment.Method  `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	Status        Status          `json:"status"`
	AccessCode    string          `json:"accessCode"`
}

// CheckoutInput is the contact form with an explicit locker choice.
type CheckoutInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LockerID string `json:"lockerId"`
}

// PaymentCheckoutInput is the contact form with a payment step. The
// locker is inferred from the cart.
type PaymentCheckoutInput struct {
	Email   string            `json:"email"`
	Phone   string            `json:"phone"`
	Payment payment.Selection `json:"payment"`
}
