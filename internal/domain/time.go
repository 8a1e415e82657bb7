package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LocalTimeLayout is the zone-less timestamp format used on the wire, e.g. "2025-10-18T00:00:00".
const LocalTimeLayout = "2006-01-02T15:04:05"

var inputLayouts = []string{
	LocalTimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// LocalTime is a timestamp that serializes without a zone offset. Values are kept in UTC.
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.UTC().Truncate(time.Second)}
}

// ParseLocalTime accepts the wire layout, RFC 3339 and a bare date.
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NewLocalTime(t), nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid date %q: expected %s", s, LocalTimeLayout)
}

func (t LocalTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(LocalTimeLayout)
}

// Date returns just the calendar day, used by list views.
func (t LocalTime) Date() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = LocalTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TIMESTAMP columns.
func (t *LocalTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = LocalTime{}
	case time.Time:
		*t = NewLocalTime(v)
	case string:
		parsed, err := ParseLocalTime(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseLocalTime(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	default:
		return fmt.Errorf("cannot scan %T into LocalTime", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t LocalTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC(), nil
}
