package marketdata

import "github.com/quantlab/blotter/internal/domain"

// BarBuffer is a fixed-size circular buffer of price bars for one
// instrument. Oldest bars are overwritten once the buffer is full.
type BarBuffer struct {
	data  []*domain.Bar
	head  int // next write position
	count int
}

// NewBarBuffer creates a buffer holding up to capacity bars.
func NewBarBuffer(capacity int) *BarBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &BarBuffer{data: make([]*domain.Bar, capacity)}
}

// Push adds a bar to the buffer.
func (bb *BarBuffer) Push(b *domain.Bar) {
	bb.data[bb.head] = b
	bb.head = (bb.head + 1) % len(bb.data)
	if bb.count < len(bb.data) {
		bb.count++
	}
}

// All returns the buffered bars in chronological order.
func (bb *BarBuffer) All() []*domain.Bar {
	return bb.Recent(bb.count)
}

// Recent returns the n most recent bars in chronological order.
func (bb *BarBuffer) Recent(n int) []*domain.Bar {
	if n <= 0 || bb.count == 0 {
		return nil
	}
	if n > bb.count {
		n = bb.count
	}

	result := make([]*domain.Bar, n)
	start := (bb.head - n + len(bb.data)) % len(bb.data)
	for i := 0; i < n; i++ {
		result[i] = bb.data[(start+i)%len(bb.data)]
	}
	return result
}
