package blotter

import (
	"github.com/shopspring/decimal"

	"github.com/quantlab/blotter/internal/domain"
)

// outsideBand reports whether price falls outside the supplied band and
// should therefore be excluded from trigger consideration. Bounds are
// inclusive and independently optional: an unset bound never excludes, and
// either breach alone is sufficient to exclude.
func outsideBand(price decimal.Decimal, upper, lower decimal.NullDecimal) bool {
	if upper.Valid && price.GreaterThan(upper.Decimal) {
		return true
	}
	if lower.Valid && price.LessThan(lower.Decimal) {
		return true
	}
	return false
}

// reachable reports whether a bar's price range crossed a trigger price,
// given the order's direction. A BUY trigger is reached when price falls
// to-or-below the threshold (the bar's low is at or under it); a SELL
// trigger when price rises to-or-above (the bar's high is at or over it).
func reachable(action domain.TradeAction, trigger decimal.Decimal, bar domain.Bar) bool {
	if action == domain.ActionBuy {
		return !outsideBand(trigger, decimal.NullDecimal{}, decimal.NewNullDecimal(bar.Low))
	}
	return !outsideBand(trigger, decimal.NewNullDecimal(bar.High), decimal.NullDecimal{})
}
