package claimset

import (
	"time"

	"bankid/internal/claims/domain/shared"
)

// Address is one of the End-User's registered addresses.
type Address struct {
	Type              *shared.AddressType `json:"type,omitempty"`
	Street            *string             `json:"street,omitempty"`
	BuildingApartment *string             `json:"buildingapartment,omitempty"`
	StreetNumber      *string             `json:"streetnumber,omitempty"`
	City              *string             `json:"city,omitempty"`
	Zipcode           *string             `json:"zipcode,omitempty"`
	Country           *shared.CountryCode `json:"country,omitempty"`
	// RuianReference points into the Czech register of territorial
	// identification, addresses and real estate.
	RuianReference *string `json:"ruian_reference,omitempty"`
}

// IDCard is an identity document held by the End-User.
type IDCard struct {
	Type        *shared.IDCardType  `json:"type,omitempty"`
	Description *string             `json:"description,omitempty"`
	Country     *shared.CountryCode `json:"country,omitempty"`
	Number      *string             `json:"number,omitempty"`
	ValidTo     *shared.Date        `json:"valid_to,omitempty"`
	Issuer      *string             `json:"issuer,omitempty"`
	IssueDate   *shared.Date        `json:"issue_date,omitempty"`
}

// IsExpiredAt reports whether the document's validity ended before the day of
// now. Documents without a validity date never expire.
func (c IDCard) IsExpiredAt(now time.Time) bool {
	return c.ValidTo != nil && c.ValidTo.Before(now)
}
