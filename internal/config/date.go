package config

import (
	"bytes"
	"time"

	"github.com/relvacode/iso8601"
)

// Date is a calendar date written as ISO 8601 in the config file.
// A bare date such as "2024-03-01" is read as midnight UTC.
type Date time.Time

// Time returns the date as a time.Time
func (d Date) Time() time.Time {
	return time.Time(d)
}

// String returns the date as YYYY-MM-DD
func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	if !bytes.ContainsAny(b, "tT") {
		b = append(append([]byte{}, b...), "T00:00:00Z"...)
	}
	parsed, err := iso8601.Parse(b)
	if err != nil {
		return err
	}
	*d = Date(parsed)
	return nil
}
