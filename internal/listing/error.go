package listing

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidListing = errors.New("invalid listing")

	// -- Resource State --
	ErrListingNotFound = errors.New("no recent listing")
	ErrCorruptListing  = errors.New("stored listing is malformed")
)
