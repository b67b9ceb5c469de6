/*
Package schedule models a weekly recurring business-hours schedule.

PURPOSE:
  Answers one question for the fee engine: is the desk open on a given
  weekday, and if so between which times of day? There is no behavior
  beyond validated lookups.

KEY CONCEPTS:
  - Clock:  a time of day (hour, minute)
  - Day:    either closed, or open between two clocks of the same day
  - Window: the open/close pair of an open day
  - Weekly: exactly seven Days indexed by time.Weekday (0=Sunday)

VALIDATION:
  A window never spans midnight. An open Day whose open time is not
  strictly before its close time, or whose clocks are out of range, is
  treated as closed by WindowFor. No error is raised: the fee walk must
  always make progress.

USAGE:
  week := schedule.Every(schedule.Open(12, 0, 22, 0)).
      With(time.Saturday, schedule.Closed()).
      With(time.Sunday, schedule.Closed())

  if w, ok := week.WindowFor(time.Monday); ok {
      open, close := w.Bounds(day)
  }

SEE ALSO:
  - fee/accrual.go: walks the schedule day by day
  - config/config.go: wire shape of the schedule
*/
package schedule

import "time"

// DaysPerWeek is the number of entries in a Weekly schedule.
const DaysPerWeek = 7

// =============================================================================
// DAY - One weekday entry
// =============================================================================

// Day is a single weekday entry: closed, or open between Open and Close.
type Day struct {
	IsOpen bool
	Open   Clock
	Close  Clock
}

// Closed returns a closed day.
func Closed() Day { return Day{} }

// Open returns a day open from openHour:openMinute to closeHour:closeMinute.
func Open(openHour, openMinute, closeHour, closeMinute int) Day {
	return Day{
		IsOpen: true,
		Open:   At(openHour, openMinute),
		Close:  At(closeHour, closeMinute),
	}
}

// Valid reports whether an open day has in-range clocks and Open < Close.
// Closed days are always valid.
func (d Day) Valid() bool {
	if !d.IsOpen {
		return true
	}
	return d.Open.Valid() && d.Close.Valid() && d.Open.Before(d.Close)
}

func (d Day) String() string {
	if !d.IsOpen {
		return "closed"
	}
	return d.Open.String() + "-" + d.Close.String()
}

// =============================================================================
// WINDOW - Open interval of one day
// =============================================================================

// Window is the open interval of an open day. Open is strictly before Close.
type Window struct {
	Open  Clock
	Close Clock
}

// Bounds returns the open and close instants of the window on day's date.
func (w Window) Bounds(day time.Time) (open, close time.Time) {
	return w.Open.On(day), w.Close.On(day)
}

// =============================================================================
// WEEKLY - Seven days indexed by weekday
// =============================================================================

// Weekly is the recurring weekly schedule, indexed by time.Weekday.
type Weekly [DaysPerWeek]Day

// Every returns a schedule with the same entry on all seven days.
func Every(d Day) Weekly {
	var w Weekly
	for i := range w {
		w[i] = d
	}
	return w
}

// With returns a copy of the schedule with one weekday replaced.
func (w Weekly) With(day time.Weekday, d Day) Weekly {
	if day < time.Sunday || day > time.Saturday {
		return w
	}
	w[day] = d
	return w
}

// WindowFor returns the open window for a weekday, or false when the day is
// closed. Malformed open entries are reported as closed.
func (w Weekly) WindowFor(day time.Weekday) (Window, bool) {
	if day < time.Sunday || day > time.Saturday {
		return Window{}, false
	}
	d := w[day]
	if !d.IsOpen || !d.Valid() {
		return Window{}, false
	}
	return Window{Open: d.Open, Close: d.Close}, true
}

// AllClosed reports whether no weekday has a usable window.
func (w Weekly) AllClosed() bool {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if _, ok := w.WindowFor(day); ok {
			return false
		}
	}
	return true
}

// Normalize returns a copy where every malformed open entry is replaced by a
// closed day, along with the weekdays that were replaced.
func (w Weekly) Normalize() (Weekly, []time.Weekday) {
	var replaced []time.Weekday
	for i, d := range w {
		if !d.Valid() {
			w[i] = Closed()
			replaced = append(replaced, time.Weekday(i))
		}
	}
	return w, replaced
}
