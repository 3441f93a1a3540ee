package handlers

import (
	"errors"

	"microfin/internal/money"
)

var errInvalidAmount = errors.New("invalid amount")

// parseAmountMinor converts a major-unit decimal string ("150.00") into
// positive minor units.
func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}
