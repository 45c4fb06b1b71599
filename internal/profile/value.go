package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the value types a profile field can hold.
type Kind int

const (
	KindText Kind = iota
	KindList
	KindDate
)

// Value is one stored profile field: free text, a list of names, or a birth date.
type Value struct {
	Kind Kind
	Text string
	List []string
	Date Date
}

// Date is a canonical calendar date triple.
type Date struct {
	Year  int
	Month int
	Day   int
}

// IsZero reports whether the value carries no data.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindList:
		return len(v.List) == 0
	case KindDate:
		return v.Date == Date{}
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// String renders the value for conversational output.
func (v Value) String() string {
	switch v.Kind {
	case KindList:
		return strings.Join(v.List, ", ")
	case KindDate:
		return v.Date.Format()
	default:
		return v.Text
	}
}

// MarshalJSON encodes text as a string, lists as arrays, and dates as a
// [year, month, day] triple.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindList:
		return json.Marshal(v.List)
	case KindDate:
		return json.Marshal([3]int{v.Date.Year, v.Date.Month, v.Date.Day})
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON accepts a string, an array of strings, or a numeric
// [year, month, day] triple.
func (v *Value) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = Value{Kind: KindText, Text: text}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = Value{Kind: KindList, List: list}
		return nil
	}

	var triple []int
	if err := json.Unmarshal(data, &triple); err == nil && len(triple) == 3 {
		*v = Value{Kind: KindDate, Date: Date{Year: triple[0], Month: triple[1], Day: triple[2]}}
		return nil
	}

	return fmt.Errorf("unsupported profile value %s", string(data))
}

// ParseDate parses a YYYY-MM-DD date string into a canonical triple.
func ParseDate(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	parts := strings.Split(trimmed, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", trimmed)
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Date{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", trimmed)
		}
		numbers[i] = n
	}

	date := Date{Year: numbers[0], Month: numbers[1], Day: numbers[2]}
	if date.Month < 1 || date.Month > 12 || date.Day < 1 || date.Day > 31 {
		return Date{}, fmt.Errorf("date %q is out of range", trimmed)
	}
	return date, nil
}

// Time converts the triple to a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Format renders the date long-form, e.g. "May 20, 2000".
func (d Date) Format() string {
	return d.Time().Format("January 02, 2006")
}

// ComputeAge returns whole years between birth and today, one less when
// today's month/day precedes the birthday.
func ComputeAge(birth Date, today time.Time) int {
	age := today.Year() - birth.Year
	if int(today.Month()) < birth.Month ||
		(int(today.Month()) == birth.Month && today.Day() < birth.Day) {
		age--
	}
	return age
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
