package catalog

import "errors"

var (
	// -- Resource State --
	ErrItemNotFound   = errors.New("item not found")
	ErrLockerNotFound = errors.New("locker not found")
	ErrNoLockers      = errors.New("no lockers configured")

	// -- Fixtures --
	ErrInvalidFixture = errors.New("invalid catalog fixture")
)
