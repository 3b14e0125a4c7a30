package blotter

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantlab/blotter/internal/domain"
)

// Blotter is the in-memory ledger of all orders. It owns the primary map
// from order id to order, a secondary index from instrument to the ids
// resting on it, and an insertion-order list so iteration is deterministic.
//
// The primary map and the instrument index are updated together under one
// write lock, so no reader can observe a torn intermediate state. Orders
// are never physically removed: cancelled and filled orders stay queryable
// for audit, only their status changes.
type Blotter struct {
	mu sync.RWMutex

	orders       map[string]*domain.Order       // orderID -> order
	byInstrument map[string]map[string]struct{} // instrument -> resting orderIDs
	sequence     []string                       // orderIDs in placement order
	nextSeq      uint64
}

// New creates an empty blotter.
func New() *Blotter {
	return &Blotter{
		orders:       make(map[string]*domain.Order),
		byInstrument: make(map[string]map[string]struct{}),
	}
}

// PlaceOrder validates and stores a new order, returning its id. Order
// construction is delegated to NewOrder; a blank orderID gets a generated
// one. The call is all-or-nothing: on any error the blotter's indices are
// exactly as before.
func (b *Blotter) PlaceOrder(instrument string, quantity int64,
	action domain.TradeAction, orderType domain.OrderType,
	limitPrice, stopPrice decimal.NullDecimal, orderID string) (string, error) {

	order, err := NewOrder(instrument, action, quantity, orderType,
		limitPrice, stopPrice, orderID)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[order.ID]; exists {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateOrder, order.ID)
	}

	b.nextSeq++
	order.SequenceID = b.nextSeq

	b.orders[order.ID] = order
	b.indexFor(order.Instrument)[order.ID] = struct{}{}
	b.sequence = append(b.sequence, order.ID)

	return order.ID, nil
}

// CancelOrder transitions an order to CANCELLED. Cancelling an already
// CANCELLED order is a no-op; cancelling a FILLED or REJECTED order fails
// with ErrInvalidTransition. The instrument must match the one the order
// was placed on.
func (b *Blotter) CancelOrder(orderID, instrument string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, exists := b.orders[orderID]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	if order.Instrument != instrument {
		return fmt.Errorf("%w: %s is not associated with %s",
			domain.ErrOrderNotFound, orderID, instrument)
	}
	if order.Status == domain.StatusCancelled {
		return nil // idempotent double-cancel
	}
	if err := order.Transition(domain.StatusCancelled); err != nil {
		return err
	}
	b.unindex(order)
	return nil
}

// CancelAllForAsset cancels every resting order on the instrument and
// returns how many were cancelled. Terminal orders are left untouched; an
// instrument with zero or unknown orders is vacuously successful.
func (b *Blotter) CancelAllForAsset(instrument string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancelled := 0
	for orderID := range b.byInstrument[instrument] {
		order := b.orders[orderID]
		if !order.Resting() {
			continue
		}
		if err := order.Transition(domain.StatusCancelled); err == nil {
			b.unindex(order)
			cancelled++
		}
	}
	return cancelled
}

// EvaluateTrigger checks every resting order on the bar's instrument
// against the bar's [low, high] range and fills the ones whose trigger
// price was crossed. MARKET orders trigger unconditionally on the next
// bar and fill at the bar's open; LIMIT orders fill at their limit price,
// STOP at their stop price, and STOP_LIMIT at their limit price once both
// the stop and the limit were reachable within the bar. Full fills only.
func (b *Blotter) EvaluateTrigger(instrument string, bar domain.Bar) []*domain.Fill {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids, exists := b.byInstrument[instrument]
	if !exists || len(ids) == 0 {
		return nil
	}

	now := time.Now()
	var fills []*domain.Fill

	// Walk the placement order so fills come out deterministically.
	for _, orderID := range b.sequence {
		if _, ok := ids[orderID]; !ok {
			continue
		}
		order := b.orders[orderID]
		if !order.Resting() {
			continue
		}

		price, triggered := triggerPrice(order, bar)
		if !triggered {
			continue
		}
		if err := order.Transition(domain.StatusFilled); err != nil {
			continue
		}
		b.unindex(order)

		fills = append(fills, &domain.Fill{
			OrderID:    order.ID,
			Instrument: order.Instrument,
			Action:     order.Action,
			OrderType:  order.Type,
			Quantity:   order.Quantity,
			Price:      price,
			BarTime:    bar.Timestamp,
			Timestamp:  now,
		})
	}
	return fills
}

// triggerPrice decides whether the bar crossed the order's trigger and
// returns the fill price.
func triggerPrice(order *domain.Order, bar domain.Bar) (decimal.Decimal, bool) {
	switch order.Type {
	case domain.OrderTypeMarket:
		return bar.Open, true
	case domain.OrderTypeLimit:
		return order.LimitPrice.Decimal,
			reachable(order.Action, order.LimitPrice.Decimal, bar)
	case domain.OrderTypeStop:
		return order.StopPrice.Decimal,
			reachable(order.Action, order.StopPrice.Decimal, bar)
	case domain.OrderTypeStopLimit:
		// Stop first, then limit: both must be reachable within the bar.
		if !reachable(order.Action, order.StopPrice.Decimal, bar) {
			return decimal.Decimal{}, false
		}
		return order.LimitPrice.Decimal,
			reachable(order.Action, order.LimitPrice.Decimal, bar)
	}
	return decimal.Decimal{}, false
}

// Get returns a copy of the order with the given id, or false if it is
// unknown. Copies keep readers race-free against concurrent writers; the
// snapshot does not track later status changes.
func (b *Blotter) Get(orderID string) (domain.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	order, exists := b.orders[orderID]
	if !exists {
		return domain.Order{}, false
	}
	return *order, true
}

// Orders returns a copy of every order in placement order.
func (b *Blotter) Orders() []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.Order, 0, len(b.sequence))
	for _, orderID := range b.sequence {
		result = append(result, *b.orders[orderID])
	}
	return result
}

// Each calls fn for every (orderID, order) pair in placement order. The
// order passed to fn is a copy.
func (b *Blotter) Each(fn func(orderID string, order domain.Order)) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, orderID := range b.sequence {
		fn(orderID, *b.orders[orderID])
	}
}

// OpenOrdersFor returns copies of the resting orders on an instrument in
// placement order.
func (b *Blotter) OpenOrdersFor(instrument string) []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids, exists := b.byInstrument[instrument]
	if !exists {
		return nil
	}

	var result []domain.Order
	for _, orderID := range b.sequence {
		if _, ok := ids[orderID]; !ok {
			continue
		}
		if order := b.orders[orderID]; order.Resting() {
			result = append(result, *order)
		}
	}
	return result
}

// OpenCount returns the number of resting orders across all instruments.
func (b *Blotter) OpenCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, order := range b.orders {
		if order.Resting() {
			count++
		}
	}
	return count
}

// Len returns the total number of orders ever placed, terminal included.
func (b *Blotter) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// unindex drops a terminal order's id from the instrument index, keeping
// the index a set of resting ids only. Callers must hold the write lock.
func (b *Blotter) unindex(order *domain.Order) {
	ids, exists := b.byInstrument[order.Instrument]
	if !exists {
		return
	}
	delete(ids, order.ID)
	if len(ids) == 0 {
		delete(b.byInstrument, order.Instrument)
	}
}

// indexFor returns the id set for an instrument, creating it if needed.
// Callers must hold the write lock.
func (b *Blotter) indexFor(instrument string) map[string]struct{} {
	ids, exists := b.byInstrument[instrument]
	if !exists {
		ids = make(map[string]struct{})
		b.byInstrument[instrument] = ids
	}
	return ids
}
