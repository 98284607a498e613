package order

import (
	"errors"

	"bumpbox-be/internal/cart"
)

var (
	// -- Validation & Input --
	ErrInvalidCheckout = errors.New("invalid checkout details")
	ErrPaymentInvalid  = errors.New("payment details are not valid")

	// -- Resource State --
	ErrCartEmpty     = cart.ErrCartEmpty
	ErrOrderNotFound = errors.New("no recent order")
	ErrCorruptOrder  = errors.New("stored order is malformed")
)
