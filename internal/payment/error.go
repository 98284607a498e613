package payment

import "errors"

var (
	ErrUnknownMethod  = errors.New("unknown payment method")
	ErrCardIncomplete = errors.New("card number, holder name, expiry and cvv are required")
	ErrQRNotGenerated = errors.New("generate the QR code before paying by QR")
	ErrQRAmountStale  = errors.New("cart total changed since the QR code was generated")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
)
