package fee

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/latefee/schedule"
)

// DefaultMaxSpan bounds the lateness span a Calculator accepts by default.
const DefaultMaxSpan = 10 * 365 * 24 * time.Hour

// Calculator wraps Accrue with input checks and a cap on the walked span.
// The zero value has no cap.
type Calculator struct {
	// MaxSpan is the longest return-due gap accepted. Zero disables the cap.
	MaxSpan time.Duration
}

// NewCalculator creates a calculator with the given span cap.
func NewCalculator(maxSpan time.Duration) *Calculator {
	return &Calculator{MaxSpan: maxSpan}
}

// Assess computes the fee with its breakdown.
//
// Fails with ErrInvalidRate when rate is not positive and with a
// *SpanTooLongError when the span exceeds MaxSpan. A return at or before
// due is not an error: it yields a zero assessment.
func (c *Calculator) Assess(due, ret time.Time, rate decimal.Decimal, week schedule.Weekly) (Assessment, error) {
	if !rate.IsPositive() {
		return Assessment{}, ErrInvalidRate
	}

	due = due.Truncate(time.Minute)
	ret = ret.In(due.Location()).Truncate(time.Minute)

	if span := ret.Sub(due); c.MaxSpan > 0 && span > c.MaxSpan {
		return Assessment{}, &SpanTooLongError{Span: span, Max: c.MaxSpan}
	}

	charges := Accrue(due, ret, rate, week)
	total, ticks, nights := summarize(charges)

	return Assessment{
		Due:         due,
		Return:      ret,
		Rate:        rate,
		Total:       total,
		Charges:     charges,
		HourlyTicks: ticks,
		Nights:      nights,
	}, nil
}
