/*
Package timesource turns typed due/return timestamps into instants.

PURPOSE:
  Supplies the two instants the fee engine needs. Only manual entry is
  supported: an operator types the due time and, when the item is back,
  the return time.

MISSING VALUES:
  - No due time:    ErrDueUnavailable, the fee cannot be computed at all.
  - No return time: not an error. The Reading reports HasReturn=false and
                    the caller substitutes an as-of instant (usually now),
                    labeling the result an estimate.

ACCEPTED FORMATS:
  2025-03-10T13:00:00-05:00   (RFC 3339, zone honored)
  2025-03-10T13:00
  2025-03-10 13:00
  03/10/2025 13:00
  03/10/2025 1:00 PM
  Mar 10, 2025 1:00 PM
  Anything without a zone is read in the configured location.
*/
package timesource

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDueUnavailable is returned when no due timestamp was supplied.
	ErrDueUnavailable = errors.New("due timestamp unavailable")

	// ErrInvalidTimestamp is wrapped by ParseError.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// ParseError reports text that matched none of the accepted layouts.
type ParseError struct {
	Field string
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s timestamp %q", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidTimestamp
}

var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
}

// =============================================================================
// READING / SPAN
// =============================================================================

// Reading is what the time source produced: always a due instant, and a
// return instant only when HasReturn is set.
type Reading struct {
	Due       time.Time
	Return    time.Time
	HasReturn bool
}

// Span is a pair of instants ready for fee computation.
type Span struct {
	Due      time.Time
	Return   time.Time
	Estimate bool // Return is an as-of substitute, not an actual return
}

// Span resolves the reading, substituting asOf when the return is unknown.
func (r Reading) Span(asOf time.Time) Span {
	if r.HasReturn {
		return Span{Due: r.Due, Return: r.Return}
	}
	return Span{Due: r.Due, Return: asOf.In(r.Due.Location()), Estimate: true}
}

// =============================================================================
// MANUAL ENTRY
// =============================================================================

// Manual parses timestamps typed by an operator.
type Manual struct {
	Location *time.Location
	Now      func() time.Time
}

// NewManual creates a manual time source reading zone-less input in loc.
func NewManual(loc *time.Location) *Manual {
	if loc == nil {
		loc = time.UTC
	}
	return &Manual{Location: loc, Now: time.Now}
}

// Read parses the due and return texts. An empty return text is reported as
// HasReturn=false, not as an error.
func (m *Manual) Read(dueText, returnText string) (Reading, error) {
	if strings.TrimSpace(dueText) == "" {
		return Reading{}, ErrDueUnavailable
	}
	due, err := m.parse("due", dueText)
	if err != nil {
		return Reading{}, err
	}

	r := Reading{Due: due}
	if strings.TrimSpace(returnText) == "" {
		return r, nil
	}
	ret, err := m.parse("return", returnText)
	if err != nil {
		return Reading{}, err
	}
	r.Return = ret
	r.HasReturn = true
	return r, nil
}

// Span reads both texts and resolves them. asOfText defaults to Now() when
// empty and is only used when the return text is empty.
func (m *Manual) Span(dueText, returnText, asOfText string) (Span, error) {
	r, err := m.Read(dueText, returnText)
	if err != nil {
		return Span{}, err
	}
	asOf := m.now()
	if strings.TrimSpace(asOfText) != "" {
		asOf, err = m.parse("as_of", asOfText)
		if err != nil {
			return Span{}, err
		}
	}
	return r.Span(asOf), nil
}

// Parse parses a single timestamp.
func (m *Manual) Parse(text string) (time.Time, error) {
	return m.parse("", text)
}

func (m *Manual) parse(field, text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	loc := m.location()

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Field: field, Input: text}
}

func (m *Manual) location() *time.Location {
	if m.Location == nil {
		return time.UTC
	}
	return m.Location
}

func (m *Manual) now() time.Time {
	if m.Now == nil {
		return time.Now().In(m.location())
	}
	return m.Now().In(m.location())
}
