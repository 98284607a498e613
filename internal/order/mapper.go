package order

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"bumpbox-be/internal/utils"
)

const moneyEpsilon = 1e-6

func encodeOrder(o *Order) ([]byte, error) {
	return json.Marshal(o)
}

// decodeOrder is the inverse of encodeOrder. Anything it cannot account
// for is reported as ErrCorruptOrder.
func decodeOrder(data []byte) (*Order, error) {
	var o Order
	if err := utils.DecodeStrictBytes(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptOrder, err)
	}
	if err := validateOrder(&o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptOrder, err)
	}
	return &o, nil
}

func validateOrder(o *Order) error {
	if _, err := strconv.ParseInt(o.ID, 10, 64); err != nil {
		return fmt.Errorf("id %q is not a timestamp", o.ID)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order has no items")
	}

	var subtotal float64
	for _, it := range o.Items {
		if it.ID == "" {
			return fmt.Errorf("item without id")
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %s has quantity %d", it.ID, it.Quantity)
		}
		subtotal += it.Subtotal()
	}

	if !moneyEqual(subtotal, o.Subtotal) {
		return fmt.Errorf("subtotal %.2f does not match items %.2f", o.Subtotal, subtotal)
	}
	if !moneyEqual(o.Subtotal+o.ServiceFee, o.Total) {
		return fmt.Errorf("total %.2f is not subtotal plus fee", o.Total)
	}
	if o.Locker.ID == "" {
		return fmt.Errorf("order has no locker")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("unknown status %q", o.Status)
	}
	if !utils.IsAccessCode(o.AccessCode) {
		return fmt.Errorf("access code %q is not six digits", o.AccessCode)
	}
	return nil
}

func moneyEqual(a, b float64) bool {
	return math.Abs(a-b) < moneyEpsilon
}
