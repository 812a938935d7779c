package shared

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidBirthdate indicates text that is neither YYYY-MM-DD nor YYYY.
var ErrInvalidBirthdate = errors.New("invalid birthdate: must be YYYY-MM-DD or YYYY")

// ErrInvalidDate indicates text that is not a YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("invalid date: must be YYYY-MM-DD")

// ErrInvalidTimestamp indicates text that is not an ISO-8601 date-time.
var ErrInvalidTimestamp = errors.New("invalid timestamp: must be ISO-8601 date-time")

const dateLayout = "2006-01-02"

// Birthdate is an OIDC birthdate: YYYY-MM-DD, or YYYY alone. A year of 0000
// means the year was omitted and only month and day are known.
//
// Invariants:
//   - Year-only birthdates carry a non-zero year
//   - Month and day form a valid calendar day (29 February allowed when the year is omitted)
type Birthdate struct {
	year     int
	month    time.Month
	day      int
	yearOnly bool
}

// ParseBirthdate parses the wire form of a birthdate.
func ParseBirthdate(s string) (Birthdate, error) {
	switch len(s) {
	case 4:
		year, err := parseDigits(s)
		if err != nil || year == 0 {
			return Birthdate{}, ErrInvalidBirthdate
		}
		return Birthdate{year: year, yearOnly: true}, nil
	case 10:
		if s[4] != '-' || s[7] != '-' {
			return Birthdate{}, ErrInvalidBirthdate
		}
		year, errY := parseDigits(s[0:4])
		month, errM := parseDigits(s[5:7])
		day, errD := parseDigits(s[8:10])
		if errY != nil || errM != nil || errD != nil {
			return Birthdate{}, ErrInvalidBirthdate
		}
		// 2000 is a leap year, so an omitted year still admits 29 February.
		checkYear := year
		if checkYear == 0 {
			checkYear = 2000
		}
		if !validDay(checkYear, month, day) {
			return Birthdate{}, ErrInvalidBirthdate
		}
		return Birthdate{year: year, month: time.Month(month), day: day}, nil
	default:
		return Birthdate{}, ErrInvalidBirthdate
	}
}

// MustBirthdate parses a birthdate, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustBirthdate(s string) Birthdate {
	b, err := ParseBirthdate(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Year returns the birth year; false when the year was omitted.
func (b Birthdate) Year() (int, bool) {
	return b.year, b.year != 0
}

// Month returns the birth month; false for year-only birthdates.
func (b Birthdate) Month() (time.Month, bool) {
	return b.month, !b.yearOnly && b.month != 0
}

// Day returns the day of month; false for year-only birthdates.
func (b Birthdate) Day() (int, bool) {
	return b.day, !b.yearOnly && b.day != 0
}

// IsYearOnly reports whether only the birth year is known.
func (b Birthdate) IsYearOnly() bool {
	return b.yearOnly
}

// IsZero returns true if this is the zero value (uninitialized).
func (b Birthdate) IsZero() bool {
	return b.year == 0 && b.month == 0 && b.day == 0
}

// AgeAt returns the completed years of age at the given instant. It reports
// false when the birthdate lacks a year or, for year-only values, when the
// birthday in the current year cannot be placed.
func (b Birthdate) AgeAt(now time.Time) (int, bool) {
	if b.year == 0 || b.yearOnly {
		return 0, false
	}
	age := now.Year() - b.year
	if now.Month() < b.month || (now.Month() == b.month && now.Day() < b.day) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// String returns the wire form.
func (b Birthdate) String() string {
	if b.yearOnly {
		return fmt.Sprintf("%04d", b.year)
	}
	return fmt.Sprintf("%04d-%02d-%02d", b.year, int(b.month), b.day)
}

// MarshalText implements encoding.TextMarshaler.
func (b Birthdate) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Birthdate) UnmarshalText(text []byte) error {
	parsed, err := ParseBirthdate(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Date is a calendar date without time of day, such as an ID card's validity.
type Date struct {
	value time.Time
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{value: t}, nil
}

// MustDate parses a date, panicking if invalid.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return d.value
}

// IsZero returns true if this is the zero value.
func (d Date) IsZero() bool {
	return d.value.IsZero()
}

// Before reports whether d falls on an earlier day than the given instant.
func (d Date) Before(t time.Time) bool {
	y, m, day := t.Date()
	return d.value.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

// String returns the wire form.
func (d Date) String() string {
	return d.value.Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// timestampLayouts are tried in order. The provider documents
// YYYY-MM-DDThh:mm:ss±hh; RFC 3339 forms are accepted as well.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 date-time and normalizes it to UTC.
// Timestamps without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

func validDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	// Day 0 of the following month is the last day of this one.
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= last
}
