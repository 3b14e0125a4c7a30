package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	// OPEN may leave to any other status.
	for _, next := range []OrderStatus{
		StatusPartiallyFilled, StatusFilled, StatusCancelled, StatusRejected,
	} {
		assert.True(t, StatusOpen.CanTransitionTo(next), "OPEN -> %s", next)
	}
	assert.False(t, StatusOpen.CanTransitionTo(StatusOpen))

	// PARTIALLY_FILLED may only fill or cancel.
	assert.True(t, StatusPartiallyFilled.CanTransitionTo(StatusFilled))
	assert.True(t, StatusPartiallyFilled.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusPartiallyFilled.CanTransitionTo(StatusRejected))
	assert.False(t, StatusPartiallyFilled.CanTransitionTo(StatusOpen))

	// Terminal statuses have no outgoing transitions.
	for _, terminal := range []OrderStatus{StatusFilled, StatusCancelled, StatusRejected} {
		assert.True(t, terminal.Terminal())
		for _, next := range []OrderStatus{
			StatusOpen, StatusPartiallyFilled, StatusFilled, StatusCancelled, StatusRejected,
		} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestOrderTransition_TerminalUnchanged(t *testing.T) {
	order := &Order{ID: "o1", Status: StatusFilled}

	err := order.Transition(StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusFilled, order.Status)
}

func TestOrderResting(t *testing.T) {
	assert.True(t, (&Order{Status: StatusOpen}).Resting())
	assert.True(t, (&Order{Status: StatusPartiallyFilled}).Resting())
	assert.False(t, (&Order{Status: StatusFilled}).Resting())
	assert.False(t, (&Order{Status: StatusCancelled}).Resting())
	assert.False(t, (&Order{Status: StatusRejected}).Resting())
}

func TestOrderTypePriceRequirements(t *testing.T) {
	assert.False(t, OrderTypeMarket.RequiresLimit())
	assert.False(t, OrderTypeMarket.RequiresStop())
	assert.True(t, OrderTypeLimit.RequiresLimit())
	assert.False(t, OrderTypeLimit.RequiresStop())
	assert.False(t, OrderTypeStop.RequiresLimit())
	assert.True(t, OrderTypeStop.RequiresStop())
	assert.True(t, OrderTypeStopLimit.RequiresLimit())
	assert.True(t, OrderTypeStopLimit.RequiresStop())
}
