package marketdata

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantlab/blotter/internal/blotter"
	"github.com/quantlab/blotter/internal/domain"
	"github.com/quantlab/blotter/internal/middleware"
)

// Feed consumes price bars from the external price-feed collaborator and
// drives the blotter's trigger evaluation. It also keeps a per-instrument
// ring buffer of recent bars and a log of resulting fills for audit
// queries.
//
// Bars for a given instrument are assumed to arrive in non-decreasing
// timestamp order; the feed does not re-sort them. The run loop is a
// single goroutine, so evaluation is single-writer by construction.
type Feed struct {
	mu sync.RWMutex

	blotter *blotter.Blotter
	history int

	bars  map[string]*BarBuffer // instrument -> recent bars
	fills []*domain.Fill

	// Channel to receive bars from the price-feed collaborator.
	BarIn chan *domain.Bar

	done chan struct{}
	log  *logrus.Entry
}

// NewFeed creates a feed wired to the given blotter. bufferSize is the
// inbound channel capacity; history is the per-instrument bar retention.
func NewFeed(b *blotter.Blotter, bufferSize, history int, logger *logrus.Logger) *Feed {
	return &Feed{
		blotter: b,
		history: history,
		bars:    make(map[string]*BarBuffer),
		BarIn:   make(chan *domain.Bar, bufferSize),
		done:    make(chan struct{}),
		log:     logger.WithField("component", "marketdata"),
	}
}

// Start begins the feed's run loop in a goroutine.
func (f *Feed) Start() {
	go f.run()
}

// Stop shuts down the feed.
func (f *Feed) Stop() {
	close(f.done)
}

// Submit hands a bar to the feed without blocking. It fails when the
// inbound channel is full; retrying is the caller's decision.
func (f *Feed) Submit(b *domain.Bar) error {
	select {
	case f.BarIn <- b:
		return nil
	default:
		return fmt.Errorf("bar channel full, dropping bar for %s", b.Instrument)
	}
}

func (f *Feed) run() {
	f.log.Info("feed started")
	for {
		select {
		case b := <-f.BarIn:
			f.ProcessBar(b)
		case <-f.done:
			f.log.Info("feed stopped")
			return
		}
	}
}

// ProcessBar records the bar and evaluates triggers for its instrument.
func (f *Feed) ProcessBar(b *domain.Bar) {
	f.mu.Lock()
	buf, exists := f.bars[b.Instrument]
	if !exists {
		buf = NewBarBuffer(f.history)
		f.bars[b.Instrument] = buf
	}
	buf.Push(b)
	f.mu.Unlock()

	middleware.BarsTotal.WithLabelValues(b.Instrument).Inc()

	fills := f.blotter.EvaluateTrigger(b.Instrument, *b)
	if len(fills) == 0 {
		return
	}

	f.mu.Lock()
	f.fills = append(f.fills, fills...)
	f.mu.Unlock()

	for _, fill := range fills {
		middleware.TriggersTotal.WithLabelValues(
			fill.Instrument, string(fill.OrderType)).Inc()
		f.log.WithFields(logrus.Fields{
			"order_id":   fill.OrderID,
			"instrument": fill.Instrument,
			"price":      fill.Price.String(),
			"quantity":   fill.Quantity,
		}).Info("order triggered")
	}
	middleware.OpenOrders.Set(float64(f.blotter.OpenCount()))
}

// RecentBars returns the n most recent bars for an instrument.
func (f *Feed) RecentBars(instrument string, n int) []*domain.Bar {
	f.mu.RLock()
	defer f.mu.RUnlock()

	buf, exists := f.bars[instrument]
	if !exists {
		return nil
	}
	return buf.Recent(n)
}

// Fills returns recorded fills matching the filter criteria. Empty
// instrument or orderID and a zero since match everything.
func (f *Feed) Fills(instrument, orderID string, since time.Time) []*domain.Fill {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var result []*domain.Fill
	for _, fill := range f.fills {
		if instrument != "" && fill.Instrument != instrument {
			continue
		}
		if orderID != "" && fill.OrderID != orderID {
			continue
		}
		if !since.IsZero() && fill.Timestamp.Before(since) {
			continue
		}
		result = append(result, fill)
	}
	return result
}
