package shared

import (
	"errors"
	"regexp"
	"strings"
)

// CountryCode is an ISO 3166-1 alpha-2 country code, upper case.
//
// Invariants:
//   - Exactly two letters A-Z
type CountryCode string

// CountryCzechRepublic is the code whose nationals must carry a birth number.
const CountryCzechRepublic CountryCode = "CZ"

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// ErrInvalidCountryCode indicates text that is not an ISO 3166-1 alpha-2 code.
var ErrInvalidCountryCode = errors.New("invalid country code: must be ISO 3166-1 alpha-2")

// ParseCountryCode normalizes and validates a country code. Lower-case input
// is accepted and upper-cased.
func ParseCountryCode(s string) (CountryCode, error) {
	c := CountryCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidCountryCode
	}
	return c, nil
}

// IsValid reports whether the code has the alpha-2 shape.
func (c CountryCode) IsValid() bool {
	return countryCodePattern.MatchString(string(c))
}

// String returns the country code.
func (c CountryCode) String() string {
	return string(c)
}
