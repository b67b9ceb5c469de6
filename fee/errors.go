package fee

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRate is returned when the hourly rate is zero or negative.
	ErrInvalidRate = errors.New("rate must be positive")

	// ErrSpanTooLong is returned when the return-due gap exceeds the
	// calculator's cap.
	ErrSpanTooLong = errors.New("lateness span exceeds maximum")
)

// SpanTooLongError carries the rejected span and the configured cap.
type SpanTooLongError struct {
	Span time.Duration
	Max  time.Duration
}

func (e *SpanTooLongError) Error() string {
	return fmt.Sprintf("lateness span %v exceeds maximum %v", e.Span, e.Max)
}

func (e *SpanTooLongError) Unwrap() error {
	return ErrSpanTooLong
}
