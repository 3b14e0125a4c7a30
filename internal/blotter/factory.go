package blotter

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantlab/blotter/internal/domain"
)

// NewOrder validates the type-specific parameters and constructs the order
// variant matching orderType. It has no side effects on the blotter's
// indices; placement is the blotter's job.
//
// Exactly the price fields the order type requires must be set: a LIMIT
// order carries no stop price, a STOP order no limit price, and a MARKET
// order neither. Extraneous prices are rejected rather than ignored so
// caller mistakes surface immediately.
func NewOrder(instrument string, action domain.TradeAction, quantity int64,
	orderType domain.OrderType, limitPrice, stopPrice decimal.NullDecimal,
	orderID string) (*domain.Order, error) {

	if instrument == "" {
		return nil, fmt.Errorf("%w: instrument is required", domain.ErrValidation)
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrValidation, action)
	}
	if !orderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", domain.ErrValidation, orderType)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d",
			domain.ErrValidation, quantity)
	}

	if orderType.RequiresLimit() && !limitPrice.Valid {
		return nil, fmt.Errorf("%w: %s order requires a limit price",
			domain.ErrValidation, orderType)
	}
	if orderType.RequiresStop() && !stopPrice.Valid {
		return nil, fmt.Errorf("%w: %s order requires a stop price",
			domain.ErrValidation, orderType)
	}
	if !orderType.RequiresLimit() && limitPrice.Valid {
		return nil, fmt.Errorf("%w: %s order must not carry a limit price",
			domain.ErrValidation, orderType)
	}
	if !orderType.RequiresStop() && stopPrice.Valid {
		return nil, fmt.Errorf("%w: %s order must not carry a stop price",
			domain.ErrValidation, orderType)
	}

	if orderID == "" {
		orderID = uuid.New().String()
	}

	return &domain.Order{
		ID:         orderID,
		Instrument: instrument,
		Action:     action,
		Quantity:   quantity,
		Type:       orderType,
		LimitPrice: limitPrice,
		StopPrice:  stopPrice,
		Status:     domain.StatusOpen,
		CreatedAt:  time.Now(),
	}, nil
}
