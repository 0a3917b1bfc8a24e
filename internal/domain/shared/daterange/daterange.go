package daterange

import (
	"errors"
	"time"
)

// Layout is the wire format for calendar dates. Bookings carry no
// time-of-day component.
const Layout = "2006-01-02"

var (
	ErrMalformedDate = errors.New("daterange: date must be in YYYY-MM-DD form")
	ErrEndNotAfter   = errors.New("daterange: end date must be after start date")
)

// DateRange is a half-open interval [Start, End) of calendar days.
// Both bounds are UTC midnights.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Truncate(start), End: Truncate(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return New(s, e)
}

// ParseDate parses a single YYYY-MM-DD date into a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, value, time.UTC)
	if err != nil {
		return time.Time{}, ErrMalformedDate
	}
	return t, nil
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrMalformedDate
	}
	if !dr.End.After(dr.Start) {
		return ErrEndNotAfter
	}
	return nil
}

// Days returns the whole-day length of the interval.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start).Hours() / 24)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

func (dr DateRange) StartString() string { return dr.Start.Format(Layout) }

func (dr DateRange) EndString() string { return dr.End.Format(Layout) }

// Truncate drops the time-of-day component, keeping the UTC calendar day.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
