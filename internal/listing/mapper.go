package listing

import (
	"encoding/json"
	"fmt"
	"strconv"

	"bumpbox-be/internal/utils"
)

func encodeListing(l *Listing) ([]byte, error) {
	return json.Marshal(l)
}

func decodeListing(data []byte) (*Listing, error) {
	var l Listing
	if err := utils.DecodeStrictBytes(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptListing, err)
	}
	if err := validateListing(&l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptListing, err)
	}
	return &l, nil
}

func validateListing(l *Listing) error {
	if _, err := strconv.ParseInt(l.ID, 10, 64); err != nil {
		return fmt.Errorf("id %q is not a timestamp", l.ID)
	}
	if utils.IsBlank(l.Title) || utils.IsBlank(l.Category) || utils.IsBlank(l.Description) {
		return fmt.Errorf("listing is missing text fields")
	}
	if l.Price <= 0 {
		return fmt.Errorf("price %.2f is not positive", l.Price)
	}
	if !l.Condition.Valid() {
		return fmt.Errorf("unknown condition %q", l.Condition)
	}
	if l.Image.FileName == "" || l.Video.FileName == "" {
		return fmt.Errorf("listing is missing media")
	}
	if !utils.IsLockerSlotID(l.LockerSlotID) {
		return fmt.Errorf("locker slot %q is malformed", l.LockerSlotID)
	}
	if !utils.IsAccessCode(l.Passcode) {
		return fmt.Errorf("passcode %q is not six digits", l.Passcode)
	}
	if l.Locker.ID == "" {
		return fmt.Errorf("listing has no locker")
	}
	return nil
}
