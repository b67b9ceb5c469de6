/*
Package fee computes the late fee owed for an item returned after its due time.

PURPOSE:
  Walks the calendar days between the due instant and the return instant,
  charging one rate unit per open hour elapsed and one rate unit per night
  the item stayed out past closing. Pure and synchronous: no I/O, no shared
  state, identical output for identical input.

WALK:
  For each calendar day from due's date through return's date (inclusive,
  in due's location):

  Closed day:
    No charge.

  Open day [open, close]:
    start = max(due, open) on the due date, open afterwards
    end   = min(return, close) on the return date, close before

    Hourly ticks are aligned to due's minute-of-hour across the whole span.
    On the due date the first tick is due+1h (or the first aligned boundary
    at or after open when due is before open). On later dates it is the
    first aligned boundary at or after open. Every tick t with t <= end is
    charged, inclusive.

    Overnight: one extra unit when return is strictly after close (later
    date, or same date and return > close) and the day carried lateness
    (due < close on the due date, always on later dates).

  Seven closed days:
    Nothing is ever open, so each visited day whose night the item spends
    out (return on a later date) charges one overnight unit.

BOUNDARIES:
  A tick landing exactly on close is charged (inclusive), while a return
  exactly at close does not trigger the overnight charge (strict).

EXAMPLE:
  week := schedule.Every(schedule.Open(12, 0, 22, 0))
  total := fee.Compute(due, returned, decimal.NewFromInt(5), week)

SEE ALSO:
  - calculator.go: span cap and breakdown
  - schedule/weekly.go: window lookup
*/
package fee

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/latefee/schedule"
)

// Compute returns the late fee for an item due at due and returned at ret.
// The result is never negative; ret <= due yields zero.
func Compute(due, ret time.Time, rate decimal.Decimal, week schedule.Weekly) decimal.Decimal {
	total, _, _ := summarize(Accrue(due, ret, rate, week))
	return total
}

// Accrue returns the individual charges in chronological order.
// Returns nil when the item is not late or the rate is not positive.
func Accrue(due, ret time.Time, rate decimal.Decimal, week schedule.Weekly) []Charge {
	due = due.Truncate(time.Minute)
	ret = ret.In(due.Location()).Truncate(time.Minute)
	if !ret.After(due) || !rate.IsPositive() {
		return nil
	}

	w := walker{
		due:       due,
		ret:       ret,
		rate:      rate,
		week:      week,
		allClosed: week.AllClosed(),
	}

	var charges []Charge
	last := startOfDay(ret)
	for day := startOfDay(due); !day.After(last); day = day.AddDate(0, 0, 1) {
		charges = append(charges, w.day(day)...)
	}
	return charges
}

// =============================================================================
// WALKER - Per-day accrual
// =============================================================================

type walker struct {
	due       time.Time
	ret       time.Time
	rate      decimal.Decimal
	week      schedule.Weekly
	allClosed bool
}

func (w walker) day(day time.Time) []Charge {
	isDueDay := sameDate(day, w.due)
	isReturnDay := sameDate(day, w.ret)

	window, open := w.week.WindowFor(day.Weekday())
	if !open {
		if w.allClosed && !isReturnDay {
			return []Charge{w.charge(day.AddDate(0, 0, 1), ChargeOvernight)}
		}
		return nil
	}

	opens, closes := window.Bounds(day)

	end := closes
	if isReturnDay && w.ret.Before(closes) {
		end = w.ret
	}

	var tick time.Time
	if isDueDay && !w.due.Before(opens) {
		tick = w.due.Add(time.Hour)
	} else {
		tick = alignedAtOrAfter(opens, w.due.Minute())
	}

	var charges []Charge
	for ; !tick.After(end) && !tick.After(closes); tick = tick.Add(time.Hour) {
		charges = append(charges, w.charge(tick, ChargeHourly))
	}

	pastClose := !isReturnDay || w.ret.After(closes)
	carried := !isDueDay || w.due.Before(closes)
	if pastClose && carried {
		charges = append(charges, w.charge(closes, ChargeOvernight))
	}
	return charges
}

func (w walker) charge(at time.Time, kind ChargeKind) Charge {
	return Charge{At: at, Amount: w.rate, Kind: kind}
}

// =============================================================================
// TIME HELPERS
// =============================================================================

// alignedAtOrAfter returns the first instant at minute-of-hour minute that is
// not before t.
func alignedAtOrAfter(t time.Time, minute int) time.Time {
	aligned := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
	if aligned.Before(t) {
		aligned = aligned.Add(time.Hour)
	}
	return aligned
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
