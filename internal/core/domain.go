package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and on-the-wire form of a due date.
const DateLayout = "2006-01-02"

type (
	// Payment is one trackable bill.
	Payment struct {
		ID      int64  // Session identifier assigned by the repository, never persisted
		Title   string
		Amount  string // Kept as text; only display formatting interprets it
		DueDate string // YYYY-MM-DD, kept verbatim so malformed stored values survive
		Paid    bool
	}

	// ValidationError reports a missing or empty required field.
	ValidationError struct {
		Field string
		Err   error
	}

	// IndexError reports a positional address outside the current collection.
	// It almost always means the caller kept an index across a delete.
	IndexError struct {
		Index int
		Len   int
	}
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrEmptyTitle     = errors.New("empty title")
	ErrEmptyAmount    = errors.New("empty amount")
	ErrMissingDueDate = errors.New("missing due date")
	ErrStaleIndex     = errors.New("index out of range")
	ErrNotFound       = errors.New("payment not found")
	ErrLimitReached   = errors.New("free plan limit reached")
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrValidation) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrStaleIndex
}

// Normalize trims the user supplied text fields.
func (p Payment) Normalize() Payment {
	p.Title = strings.TrimSpace(p.Title)
	p.Amount = strings.TrimSpace(p.Amount)
	p.DueDate = strings.TrimSpace(p.DueDate)
	return p
}

// Validate checks the fields required to create a payment.
// The due date only has to be present: an unparseable date is a status outcome, not a rejection.
func (p Payment) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if strings.TrimSpace(p.Amount) == "" {
		return &ValidationError{Field: "amount", Err: ErrEmptyAmount}
	}
	if strings.TrimSpace(p.DueDate) == "" {
		return &ValidationError{Field: "due_date", Err: ErrMissingDueDate}
	}
	return nil
}

// Due parses the due date as a calendar date at midnight UTC.
func (p Payment) Due() (time.Time, error) {
	return ParseDate(p.DueDate)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Day strips the clock from t, keeping the calendar date as seen in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the signed number of whole days from today to the due date.
// It counts in Unix seconds since time.Duration cannot span more than ~292 years.
func DaysUntil(due, today time.Time) int {
	return int((Day(due).Unix() - Day(today).Unix()) / secondsPerDay)
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
