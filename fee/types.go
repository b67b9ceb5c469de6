package fee

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CHARGE - Single accrual occurrence
// =============================================================================

// ChargeKind tells why a charge was applied.
type ChargeKind string

const (
	ChargeHourly    ChargeKind = "hourly"    // One open hour elapsed (tick)
	ChargeOvernight ChargeKind = "overnight" // Item stayed out past a day's close
)

// Charge is one rate unit applied at a point in time.
type Charge struct {
	At     time.Time
	Amount decimal.Decimal
	Kind   ChargeKind
}

// =============================================================================
// ASSESSMENT - Result of a fee calculation with its breakdown
// =============================================================================

// Assessment is a computed late fee and the charges that make it up.
// Due and Return are the minute-truncated instants the walk used.
type Assessment struct {
	Due         time.Time
	Return      time.Time
	Rate        decimal.Decimal
	Total       decimal.Decimal
	Charges     []Charge
	HourlyTicks int
	Nights      int
}

// IsLate reports whether any fee accrued.
func (a Assessment) IsLate() bool { return a.Total.IsPositive() }

func summarize(charges []Charge) (total decimal.Decimal, ticks, nights int) {
	total = decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
		switch c.Kind {
		case ChargeHourly:
			ticks++
		case ChargeOvernight:
			nights++
		}
	}
	return total, ticks, nights
}
