package model

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the canonical wire format for calendar dates.
const dateLayout = "2006-01-02"

// acceptedDateLayouts lists every format the remote meal service has been
// observed to emit or accept.
var acceptedDateLayouts = []string{
	dateLayout,
	"2006/01/02",
	time.RFC3339,
}

// Date is a calendar date (no time-of-day component) as used by the
// last_eaten field.
type Date struct {
	t time.Time
}

// NewDate creates a date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses any of the accepted wire formats.
func ParseDate(s string) (Date, error) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// Before reports whether d is chronologically before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// String formats the date in the canonical wire layout.
func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// MarshalJSON emits the canonical "2006-01-02" form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts every observed wire format.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}
