package blotter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/blotter/internal/domain"
)

func TestNewOrder_Limit(t *testing.T) {
	order, err := NewOrder("AAPL", domain.ActionSell, 55, domain.OrderTypeLimit,
		ndec(124.33), unset(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderTypeLimit, order.Type)
	assert.True(t, order.LimitPrice.Valid)
	assert.True(t, order.LimitPrice.Decimal.Equal(dec(124.33)))
	assert.False(t, order.StopPrice.Valid)
	assert.Equal(t, domain.StatusOpen, order.Status)
	assert.NotEmpty(t, order.ID) // generated when caller supplies none
}

func TestNewOrder_Stop(t *testing.T) {
	order, err := NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeStop,
		unset(), ndec(110.1), "")
	require.NoError(t, err)

	assert.Equal(t, int64(50), order.Quantity)
	assert.True(t, order.StopPrice.Decimal.Equal(dec(110.1)))
	assert.False(t, order.LimitPrice.Valid)
}

func TestNewOrder_StopLimit(t *testing.T) {
	order, err := NewOrder("AAPL", domain.ActionSell, 55, domain.OrderTypeStopLimit,
		ndec(124.33), ndec(111.2), "")
	require.NoError(t, err)

	assert.True(t, order.LimitPrice.Decimal.Equal(dec(124.33)))
	assert.True(t, order.StopPrice.Decimal.Equal(dec(111.2)))
	assert.Equal(t, domain.StatusOpen, order.Status)
}

func TestNewOrder_Market(t *testing.T) {
	order, err := NewOrder("AAPL", domain.ActionBuy, 10, domain.OrderTypeMarket,
		unset(), unset(), "mkt-1")
	require.NoError(t, err)

	assert.Equal(t, "mkt-1", order.ID)
	assert.False(t, order.LimitPrice.Valid)
	assert.False(t, order.StopPrice.Valid)
}

func TestNewOrder_QuantityMustBePositive(t *testing.T) {
	for _, qty := range []int64{0, -1, -50} {
		_, err := NewOrder("AAPL", domain.ActionBuy, qty, domain.OrderTypeMarket,
			unset(), unset(), "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestNewOrder_MissingRequiredPrice(t *testing.T) {
	// LIMIT without a limit price
	_, err := NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeLimit,
		unset(), unset(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// STOP without a stop price
	_, err = NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeStop,
		unset(), unset(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// STOP_LIMIT without either
	_, err = NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeStopLimit,
		ndec(100), unset(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeStopLimit,
		unset(), ndec(100), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewOrder_MarketRejectsAnyPrice(t *testing.T) {
	_, err := NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeMarket,
		ndec(100), unset(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeMarket,
		unset(), ndec(100), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewOrder_ExtraneousPriceRejected(t *testing.T) {
	// LIMIT must not carry a stop price.
	_, err := NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeLimit,
		ndec(100), ndec(95), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// STOP must not carry a limit price.
	_, err = NewOrder("AAPL", domain.ActionBuy, 50, domain.OrderTypeStop,
		ndec(100), ndec(95), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewOrder_UnknownActionOrType(t *testing.T) {
	_, err := NewOrder("AAPL", domain.TradeAction("HOLD"), 50,
		domain.OrderTypeMarket, unset(), unset(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOrder("AAPL", domain.ActionBuy, 50,
		domain.OrderType("ICEBERG"), unset(), unset(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewOrder_GeneratedIDsAreUnique(t *testing.T) {
	a, err := NewOrder("AAPL", domain.ActionBuy, 1, domain.OrderTypeMarket,
		unset(), unset(), "")
	require.NoError(t, err)
	b, err := NewOrder("AAPL", domain.ActionBuy, 1, domain.OrderTypeMarket,
		unset(), unset(), "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
