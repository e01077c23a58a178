package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDateString возвращается для строк не в формате YYYY-MM-DD
var ErrInvalidDateString = errors.New("invalid date string format")

// DateString calendar date in strict "YYYY-MM-DD" form, without a time zone.
// Lexicographic order equals chronological order.
type DateString string

// NewDateStringFromString parses and validates s.
func NewDateStringFromString(s string) (DateString, error) {
	d := DateString(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// NewDateString takes the calendar part of t in t's own location.
func NewDateString(t time.Time) DateString {
	return DateString(t.Format(dateLayout))
}

func (d DateString) Validate() error {
	if len(d) != len(dateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	if _, err := time.Parse(dateLayout, string(d)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	return nil
}

// Time returns midnight UTC of the date. Invalid values yield the zero time.
func (d DateString) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d DateString) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d DateString) AddDays(days int) DateString {
	return NewDateString(d.Time().AddDate(0, 0, days))
}

func (d DateString) Before(other DateString) bool {
	return d < other
}

func (d DateString) After(other DateString) bool {
	return d > other
}

// Between reports start <= d <= end.
func (d DateString) Between(start, end DateString) bool {
	return d >= start && d <= end
}

func (d DateString) IsZero() bool {
	return d == ""
}

func (d DateString) String() string {
	return string(d)
}

// Scan implements sql.Scanner. lib/pq returns DATE columns as time.Time.
func (d *DateString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = NewDateString(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidDateString, src)
	}
}

func (d *DateString) scanString(raw string) error {
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	parsed, err := NewDateStringFromString(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d DateString) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}
