package cart

import "errors"

var (
	// -- Session --
	ErrSessionRequired = errors.New("session id is required")

	// -- Validation & Input --
	ErrItemIDRequired  = errors.New("item id is required")
	ErrItemUnavailable = errors.New("item is sold")
	ErrUnknownCommand  = errors.New("unknown cart command")

	// -- Resource State --
	ErrCartEmpty = errors.New("cart is empty")
)
