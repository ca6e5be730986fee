// Package money validates and formats integer-cent amounts. Floats never
// enter the system; every monetary field is a non-negative int64 count of
// cents.
package money

import "fmt"

// ValidateCents rejects negative amounts. Use for fields that may
// legitimately be zero.
func ValidateCents(cents int64) error {
	if cents < 0 {
		return fmt.Errorf("cents must be non-negative, got %d", cents)
	}
	return nil
}

// ValidatePositiveCents rejects zero and negative amounts, for fields that
// must represent an actual movement of money (top-ups, bids, ledger rows).
func ValidatePositiveCents(cents int64) error {
	if cents <= 0 {
		return fmt.Errorf("cents must be positive, got %d", cents)
	}
	return ValidateCents(cents)
}

// FormatCents renders cents as "E.CC" for display. Never used for
// persistence or arithmetic.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
