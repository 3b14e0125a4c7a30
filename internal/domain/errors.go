package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the blotter. Callers match them with errors.Is.
var (
	// ErrValidation covers bad order parameters: non-positive quantity,
	// missing required trigger prices, or prices the order type forbids.
	ErrValidation = errors.New("invalid order parameters")

	// ErrDuplicateOrder is returned when placing an order whose id already
	// exists in the blotter.
	ErrDuplicateOrder = errors.New("duplicate order id")

	// ErrOrderNotFound is returned when a cancel targets an unknown id or
	// an id not associated with the given instrument.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned on any attempted mutation of an
	// order in a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func invalidTransition(orderID string, from, to OrderStatus) error {
	return fmt.Errorf("%w: order %s is %s, cannot become %s",
		ErrInvalidTransition, orderID, from, to)
}
