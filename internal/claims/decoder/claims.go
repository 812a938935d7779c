package decoder

import (
	"time"

	"github.com/tidwall/gjson"

	"bankid/internal/claims/domain/claimset"
	"bankid/internal/claims/domain/shared"
	"bankid/internal/claims/domain/verified"
)

func basicClaims(o object) claimset.BasicClaims {
	return claimset.BasicClaims{
		GivenName:   o.str("given_name"),
		FamilyName:  o.str("family_name"),
		MiddleName:  o.str("middle_name"),
		Birthdate:   o.birthdate("birthdate"),
		PhoneNumber: o.str("phone_number"),
		Email:       o.str("email"),
	}
}

func connectClaims(o object) claimset.ConnectClaims {
	return claimset.ConnectClaims{
		BasicClaims:         basicClaims(o),
		Name:                o.str("name"),
		Nickname:            o.str("nickname"),
		PreferredUsername:   o.str("preferred_username"),
		EmailVerified:       o.boolean("email_verified"),
		Gender:              enumField(o, "gender", "gender", shared.ParseGender),
		Zoneinfo:            o.str("zoneinfo"),
		Locale:              o.str("locale"),
		PhoneNumberVerified: o.boolean("phone_number_verified"),
		UpdatedAt:           o.integer64("updated_at"),
	}
}

func identityClaims(o object) (claimset.IdentityClaims, error) {
	addresses, err := objectsOf(o, "addresses", address)
	if err != nil {
		return claimset.IdentityClaims{}, err
	}
	return claimset.IdentityClaims{
		BasicClaims: basicClaims(o),
		TitlePrefix: o.str("title_prefix"),
		TitleSuffix: o.str("title_suffix"),
		Addresses:   addresses,
		Age:         o.integer("age"),
		DateOfDeath: o.date("date_of_death"),
		Gender:      enumField(o, "gender", "gender", shared.ParseGender),
		BirthNumber: o.str("birthnumber"),
		UpdatedAt:   o.integer64("updated_at"),
	}, nil
}

func identityPlusClaims(o object) (claimset.IdentityPlusClaims, error) {
	identity, err := identityClaims(o)
	if err != nil {
		return claimset.IdentityPlusClaims{}, err
	}
	nationalities, err := o.countries("nationalities")
	if err != nil {
		return claimset.IdentityPlusClaims{}, err
	}
	cards, err := objectsOf(o, "idcards", idCard)
	if err != nil {
		return claimset.IdentityPlusClaims{}, err
	}
	accounts, err := o.strings("paymentAccounts")
	if err != nil {
		return claimset.IdentityPlusClaims{}, err
	}
	return claimset.IdentityPlusClaims{
		IdentityClaims:       identity,
		Birthplace:           o.str("birthplace"),
		PrimaryNationality:   o.country("primary_nationality"),
		Nationalities:        nationalities,
		MaritalStatus:        enumField(o, "maritalstatus", "marital_status", shared.ParseMaritalStatus),
		IDCards:              cards,
		Majority:             o.boolean("majority"),
		PEP:                  o.boolean("pep"),
		LimitedLegalCapacity: o.boolean("limited_legal_capacity"),
		PaymentAccounts:      accounts,
	}, nil
}

func address(o object) claimset.Address {
	return claimset.Address{
		Type:              enumField(o, "type", "address_type", shared.ParseAddressType),
		Street:            o.str("street"),
		BuildingApartment: o.str("buildingapartment"),
		StreetNumber:      o.str("streetnumber"),
		City:              o.str("city"),
		Zipcode:           o.str("zipcode"),
		Country:           o.country("country"),
		RuianReference:    o.str("ruian_reference"),
	}
}

func idCard(o object) claimset.IDCard {
	return claimset.IDCard{
		Type:        enumField(o, "type", "idcard_type", shared.ParseIDCardType),
		Description: o.str("description"),
		Country:     o.country("country"),
		Number:      o.str("number"),
		ValidTo:     o.date("valid_to"),
		Issuer:      o.str("issuer"),
		IssueDate:   o.date("issue_date"),
	}
}

// verification reads the AML provenance. When the object is present its
// trust framework and process reference are required; the time is optional
// and anything other than an ISO-8601 string (the provider also sends null
// and {}) leaves it absent.
func verification(o object) (*verified.Verification, error) {
	v, present, err := o.child("verification")
	if err != nil || !present {
		return nil, err
	}
	r, path := v.get("trust_framework")
	if r.Type != gjson.String {
		return nil, fieldError(path, "string")
	}
	tf := enumField(v, "trust_framework", "trust_framework", shared.ParseTrustFramework)
	process, err := v.required("verification_process")
	if err != nil {
		return nil, err
	}

	var at *time.Time
	tr, tpath := v.get("time")
	switch {
	case tr.Type == gjson.String:
		if t, err := shared.ParseTimestamp(tr.Str); err == nil {
			at = &t
		} else {
			v.sc.dropped(tpath, "timestamp", tr.Str)
		}
	case tr.Type == gjson.Null, tr.IsObject() && len(tr.Map()) == 0:
	default:
		v.sc.dropped(tpath, "timestamp", tr.Raw)
	}

	ver := verified.NewVerification(*tf, at, process)
	return &ver, nil
}
