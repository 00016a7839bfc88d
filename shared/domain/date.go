package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const DateLayout = "2006-01-02"

// Date is a calendar date stored as "YYYY-MM-DD". The zero value means "not set"
// and is written as null. Documents written by older tools may hold a BSON datetime
// instead of a string; both decode into the same value.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t.UTC()), nil
	}
	return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

func (d Date) IsZero() bool {
	return d == ""
}

// Time returns the date at midnight UTC.
func (d Date) Time() (time.Time, bool) {
	if d == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Month returns "YYYY-MM" or "" when unset.
func (d Date) Month() string {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return t.Format("2006-01")
}

// After reports whether d is strictly after other. Unset dates are never after anything.
func (d Date) After(other Date) bool {
	a, ok1 := d.Time()
	b, ok2 := other.Time()
	return ok1 && ok2 && a.After(b)
}

func (d Date) String() string {
	return string(d)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d == "" {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(string(d))
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = ""
	case bson.TypeString:
		parsed, err := ParseDate(raw.StringValue())
		if err != nil {
			return err
		}
		*d = parsed
	case bson.TypeDateTime:
		*d = NewDate(raw.Time().UTC())
	default:
		return fmt.Errorf("cannot decode %s into Date", t)
	}
	return nil
}
