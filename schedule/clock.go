package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClock is returned when a time-of-day cannot be parsed or is out of range.
var ErrInvalidClock = errors.New("invalid clock time")

// =============================================================================
// CLOCK - Time of day with minute resolution
// =============================================================================

// Clock is a wall-clock time of day. It carries no date and no location.
type Clock struct {
	Hour   int
	Minute int
}

// At builds a Clock without validating it. Use Valid to check the range.
func At(hour, minute int) Clock {
	return Clock{Hour: hour, Minute: minute}
}

// ParseClock parses "HH:MM" or "H:MM" (24h).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	c := Clock{Hour: hour, Minute: minute}
	if !c.Valid() {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return c, nil
}

// Valid reports whether the clock is within 00:00-23:59.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) Before(other Clock) bool { return c.Minutes() < other.Minutes() }
func (c Clock) After(other Clock) bool  { return c.Minutes() > other.Minutes() }

// On places the clock on the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
