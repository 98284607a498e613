package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	accessCodeMin = 100000
	accessCodeMax = 999999

	lockerSlotMin = 1000
	lockerSlotMax = 9999
)

var ErrRandomUnavailable = errors.New("secure random source unavailable")

var randSource io.Reader = rand.Reader

// randomInRange draws uniformly from [min, max].
func randomInRange(min, max int64) (int64, error) {
	n, err := rand.Int(randSource, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRandomUnavailable, err)
	}
	return min + n.Int64(), nil
}

// GenerateAccessCode returns a 6-digit locker code with no leading zero.
func GenerateAccessCode() (string, error) {
	n, err := randomInRange(accessCodeMin, accessCodeMax)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// GenerateLockerSlotID returns a compartment id such as "L4821".
func GenerateLockerSlotID() (string, error) {
	n, err := randomInRange(lockerSlotMin, lockerSlotMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("L%d", n), nil
}

// GenerateRecordID returns the milliseconds since the Unix epoch as a
// decimal string.
func GenerateRecordID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// GenerateQRReference returns QR-YYYYMMDD-HHMMSS-mmm-NNNN.
func GenerateQRReference(now time.Time) (string, error) {
	now = now.UTC()
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := randomInRange(0, 9999)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"QR-%s-%03d-%04d",
		now.Format("20060102-150405"),
		millis,
		n,
	), nil
}

// IsAccessCode reports whether s is a 6-digit code in the generated range.
func IsAccessCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= accessCodeMin && n <= accessCodeMax
}

// IsLockerSlotID reports whether s has the form produced by
// GenerateLockerSlotID.
func IsLockerSlotID(s string) bool {
	if len(s) != 5 || s[0] != 'L' {
		return false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return false
	}
	return n >= lockerSlotMin && n <= lockerSlotMax
}
