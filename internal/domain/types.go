package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAction represents the direction of an order (buy or sell).
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// Valid reports whether the action is a known value.
func (a TradeAction) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// OrderType determines which trigger-price fields an order carries.
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStop      OrderType = "STOP"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// Valid reports whether the order type is a known value.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeStop, OrderTypeStopLimit:
		return true
	}
	return false
}

// RequiresLimit reports whether orders of this type must carry a limit price.
func (t OrderType) RequiresLimit() bool {
	return t == OrderTypeLimit || t == OrderTypeStopLimit
}

// RequiresStop reports whether orders of this type must carry a stop price.
func (t OrderType) RequiresStop() bool {
	return t == OrderTypeStop || t == OrderTypeStopLimit
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusOpen            OrderStatus = "OPEN"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
)

// Terminal reports whether the status has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled || s == StatusRejected
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
// OPEN may move to any other state; PARTIALLY_FILLED only to FILLED or
// CANCELLED; terminal states have no outgoing transitions.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusOpen:
		return next == StatusPartiallyFilled || next == StatusFilled ||
			next == StatusCancelled || next == StatusRejected
	case StatusPartiallyFilled:
		return next == StatusFilled || next == StatusCancelled
	default:
		return false
	}
}

// Order represents a single order in the blotter.
// Prices are decimals to keep trigger comparisons exact; LimitPrice and
// StopPrice are set iff the order type requires them.
type Order struct {
	ID         string              `json:"order_id"`
	Instrument string              `json:"instrument"`
	Action     TradeAction         `json:"action"`
	Quantity   int64               `json:"quantity"`
	Type       OrderType           `json:"order_type"`
	LimitPrice decimal.NullDecimal `json:"limit_price"`
	StopPrice  decimal.NullDecimal `json:"stop_price"`
	Status     OrderStatus         `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	SequenceID uint64              `json:"sequence_id"`
}

// Resting reports whether the order is still eligible for triggering or
// cancellation.
func (o *Order) Resting() bool {
	return o.Status == StatusOpen || o.Status == StatusPartiallyFilled
}

// Transition moves the order to the next status, enforcing the lifecycle
// rules. The order is left unchanged on error.
func (o *Order) Transition(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return invalidTransition(o.ID, o.Status, next)
	}
	o.Status = next
	return nil
}

// Bar is a single period's OHLC price observation for an instrument,
// supplied by the price-feed collaborator.
type Bar struct {
	Instrument string          `json:"instrument"`
	Timestamp  time.Time       `json:"timestamp"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
}

// Fill records an order triggered by a price bar. Full fills only; partial
// fills are an extension point.
type Fill struct {
	OrderID    string          `json:"order_id"`
	Instrument string          `json:"instrument"`
	Action     TradeAction     `json:"action"`
	OrderType  OrderType       `json:"order_type"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	BarTime    time.Time       `json:"bar_time"`
	Timestamp  time.Time       `json:"timestamp"`
}
