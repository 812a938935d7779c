// Package shared provides the shared kernel for the Claims bounded context.
//
// The shared kernel contains the domain primitives used by claim sets,
// verified-claims wrappers and products: the product tier selector, the
// enumerations carried on the wire, and the date formats the identity
// provider emits.
//
// Enumerations never fail to parse. Text that matches no known variant maps to
// the enum's Unknown variant and the parser reports it as not recognized, so
// callers can log the value without aborting a decode.
package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Tier selects one of the four BankID identity products.
type Tier string

const (
	TierConnect      Tier = "connect"
	TierIdentify     Tier = "identify"
	TierIdentifyPlus Tier = "identify_plus"
	TierIdentifyAML  Tier = "identify_aml"
)

// ErrUnknownTier indicates a tier selector outside the supported products.
var ErrUnknownTier = errors.New("unknown tier")

var validTiers = map[Tier]bool{
	TierConnect:      true,
	TierIdentify:     true,
	TierIdentifyPlus: true,
	TierIdentifyAML:  true,
}

// ParseTier constructs a Tier from external input.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// MustTier parses a tier, panicking if it is not supported.
// Use only in tests or with compile-time constants.
func MustTier(s string) Tier {
	t, err := ParseTier(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsValid reports whether the tier is one of the supported products.
func (t Tier) IsValid() bool {
	return validTiers[t]
}

// IsIdentify reports whether the tier belongs to the Identify lineage
// (identify, identify_plus, identify_aml).
func (t Tier) IsIdentify() bool {
	return t == TierIdentify || t == TierIdentifyPlus || t == TierIdentifyAML
}

// String returns the wire representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// Tiers returns all supported tiers in ascending order of assurance.
func Tiers() []Tier {
	return []Tier{TierConnect, TierIdentify, TierIdentifyPlus, TierIdentifyAML}
}
