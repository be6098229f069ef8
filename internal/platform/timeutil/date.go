package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout used for daily gates ("2025-03-01").
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC. The zero value means "never".
type Date string

// DateOf returns the UTC calendar day of t.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// ParseDate validates s as a calendar day. An empty string parses to the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) String() string {
	return string(d)
}

// Clock supplies the current instant. Services take a Clock so that "today" has a
// single source that tests can pin.
type Clock interface {
	Now() time.Time
}

// UTCClock reads the system clock in UTC.
type UTCClock struct{}

// Now returns the current UTC time.
func (UTCClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

// Today returns the UTC calendar day according to c.
func Today(c Clock) Date {
	return DateOf(c.Now())
}
