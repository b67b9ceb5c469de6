/*
Package config defines the fee configuration: the hourly rate and the weekly
schedule it is charged against.

PURPOSE:
  The Configuration is the plain data the fee engine reads once per
  computation. This package owns its wire shape (JSON/YAML), its
  validation, and the process-level settings of the service.

KEY CONCEPTS:
  - Configuration: rate + weekly schedule (+ currency and timezone for display)
  - Validate:      rejects what cannot be computed (non-positive rate,
                   wrong schedule length, out-of-range clocks, bad timezone)
  - Normalize:     silently closes days whose open time is not before close

SEE ALSO:
  - factory.go: JSON/YAML <-> Configuration
  - server.go:  environment settings of the HTTP service
  - schedule/weekly.go: the schedule model
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // timezones must resolve on hosts without a zoneinfo database

	"github.com/shopspring/decimal"
	"github.com/warp/latefee/schedule"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Configuration is the input the fee engine needs besides the two instants.
type Configuration struct {
	Rate     decimal.Decimal
	Schedule schedule.Weekly
	Currency string // ISO 4217 code, display only
	Timezone string // IANA name; instants typed by hand are read in this zone
}

// Default returns the configuration used until one is stored:
// 1.00 USD per hour, Monday-Friday 09:00-17:00, weekend closed, UTC.
func Default() Configuration {
	return Configuration{
		Rate: decimal.NewFromInt(1),
		Schedule: schedule.Every(schedule.Open(9, 0, 17, 0)).
			With(time.Saturday, schedule.Closed()).
			With(time.Sunday, schedule.Closed()),
		Currency: "USD",
		Timezone: "UTC",
	}
}

// Validate checks the configuration can be used for computation.
// Days with open >= close are not errors; see Normalize.
func (c Configuration) Validate() error {
	if !c.Rate.IsPositive() {
		return &ValidationError{Field: "rate", Message: "must be positive"}
	}
	for i, d := range c.Schedule {
		if !d.IsOpen {
			continue
		}
		if !d.Open.Valid() || !d.Close.Valid() {
			return &ValidationError{
				Field:   fmt.Sprintf("schedule[%d]", i),
				Message: fmt.Sprintf("clock out of range (%s)", d),
			}
		}
	}
	if c.Currency != "" && len(c.Currency) != 3 {
		return &ValidationError{Field: "currency", Message: "must be a 3-letter code"}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return &ValidationError{Field: "timezone", Message: err.Error()}
	}
	return nil
}

// Normalize closes malformed days and reports which weekdays were closed.
func (c Configuration) Normalize() (Configuration, []time.Weekday) {
	week, replaced := c.Schedule.Normalize()
	c.Schedule = week
	c.Currency = strings.ToUpper(c.Currency)
	return c, replaced
}

// Location returns the configured timezone, falling back to UTC.
func (c Configuration) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// =============================================================================
// DISPLAY
// =============================================================================

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatAmount renders an amount for display, e.g. "$30.00" or "CHF 30.00".
func (c Configuration) FormatAmount(amount decimal.Decimal) string {
	code := strings.ToUpper(c.Currency)
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + amount.StringFixed(2)
	}
	if code == "" {
		return amount.StringFixed(2)
	}
	return code + " " + amount.StringFixed(2)
}
