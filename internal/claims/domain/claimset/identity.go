package claimset

import (
	"slices"
	"time"

	"bankid/internal/claims/domain/shared"
)

// BasicClaims holds the fields common to every tier that carries claims.
type BasicClaims struct {
	GivenName   *string           `json:"given_name,omitempty"`
	FamilyName  *string           `json:"family_name,omitempty"`
	MiddleName  *string           `json:"middle_name,omitempty"`
	Birthdate   *shared.Birthdate `json:"birthdate,omitempty"`
	PhoneNumber *string           `json:"phone_number,omitempty"`
	Email       *string           `json:"email,omitempty"`
}

// Kind implements ClaimSet.
func (BasicClaims) Kind() Kind { return KindBasic }

// IdentityClaims is the claim set of the Identify (KYC) product.
type IdentityClaims struct {
	BasicClaims

	TitlePrefix *string        `json:"title_prefix,omitempty"`
	TitleSuffix *string        `json:"title_suffix,omitempty"`
	Addresses   []Address      `json:"addresses"`
	Age         *int           `json:"age,omitempty"`
	DateOfDeath *shared.Date   `json:"date_of_death,omitempty"`
	Gender      *shared.Gender `json:"gender,omitempty"`
	// BirthNumber is the Czech personal identification number.
	BirthNumber *string `json:"birthnumber,omitempty"`
	// UpdatedAt is unix seconds of the last change to the End-User's data.
	UpdatedAt *int64 `json:"updated_at,omitempty"`
}

// Kind implements ClaimSet.
func (IdentityClaims) Kind() Kind { return KindIdentity }

// UpdatedTime returns UpdatedAt as a time; false when absent.
func (c IdentityClaims) UpdatedTime() (time.Time, bool) {
	return epochTime(c.UpdatedAt)
}

// AddressesOfType returns the addresses of the given type, preserving order.
func (c IdentityClaims) AddressesOfType(t shared.AddressType) []Address {
	var out []Address
	for _, a := range c.Addresses {
		if a.Type != nil && *a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// IsDeceased reports whether the provider delivered a date of death.
func (c IdentityClaims) IsDeceased() bool {
	return c.DateOfDeath != nil
}

// IdentityPlusClaims is the claim set of the Identify Plus product. The
// Identify AML product delivers the same shape.
type IdentityPlusClaims struct {
	IdentityClaims

	Birthplace           *string               `json:"birthplace,omitempty"`
	PrimaryNationality   *shared.CountryCode   `json:"primary_nationality,omitempty"`
	Nationalities        []shared.CountryCode  `json:"nationalities"`
	MaritalStatus        *shared.MaritalStatus `json:"maritalstatus,omitempty"`
	IDCards              []IDCard              `json:"idcards"`
	Majority             *bool                 `json:"majority,omitempty"`
	PEP                  *bool                 `json:"pep,omitempty"`
	LimitedLegalCapacity *bool                 `json:"limited_legal_capacity,omitempty"`
	// PaymentAccounts are IBANs; the wire key is camelCase.
	PaymentAccounts []string `json:"paymentAccounts"`
}

// AMLClaims is the claim set of the Identify AML product. It never diverges
// from IdentityPlusClaims; the AML tier differs only by verification metadata.
type AMLClaims = IdentityPlusClaims

// Kind implements ClaimSet.
func (IdentityPlusClaims) Kind() Kind { return KindIdentityPlus }

// HasNationality reports whether the country is the primary nationality or
// one of the listed nationalities.
func (c IdentityPlusClaims) HasNationality(country shared.CountryCode) bool {
	if c.PrimaryNationality != nil && *c.PrimaryNationality == country {
		return true
	}
	return slices.Contains(c.Nationalities, country)
}

// BirthNumberRequired reports whether the provider must deliver a birth
// number for this person, which is the case for Czech nationals. It does not
// check that one was delivered.
func (c IdentityPlusClaims) BirthNumberRequired() bool {
	return c.HasNationality(shared.CountryCzechRepublic)
}

// ValidIDCardsAt returns the ID cards whose validity covers the given instant.
// Cards without a validity date are excluded.
func (c IdentityPlusClaims) ValidIDCardsAt(now time.Time) []IDCard {
	var out []IDCard
	for _, card := range c.IDCards {
		if card.ValidTo != nil && !card.IsExpiredAt(now) {
			out = append(out, card)
		}
	}
	return out
}
