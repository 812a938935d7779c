package shared

import "strings"

// Gender is the End-User's gender. The provider defines female and male;
// any other value decodes to GenderUnknown.
type Gender string

const (
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
	GenderUnknown Gender = "unknown"
)

// MaritalStatus is the End-User's marital status as reported by the bank.
type MaritalStatus string

const (
	MaritalStatusCohabitation                  MaritalStatus = "COHABITATION"
	MaritalStatusMarried                       MaritalStatus = "MARRIED"
	MaritalStatusDivorced                      MaritalStatus = "DIVORCED"
	MaritalStatusRegisteredPartnership         MaritalStatus = "REGISTERED_PARTNERSHIP"
	MaritalStatusRegisteredPartnershipCanceled MaritalStatus = "REGISTERED_PARTNERSHIP_CANCELED"
	MaritalStatusWidowed                       MaritalStatus = "WIDOWED"
	MaritalStatusSingle                        MaritalStatus = "SINGLE"
	MaritalStatusUnknown                       MaritalStatus = "UNKNOWN"
)

// AddressType distinguishes permanent from secondary residence.
type AddressType string

const (
	AddressTypePermanentResidence AddressType = "PERMANENT_RESIDENCE"
	AddressTypeSecondaryResidence AddressType = "SECONDARY_RESIDENCE"
	AddressTypeUnknown            AddressType = "UNKNOWN"
)

// IDCardType is the document type code of an identity document.
type IDCardType string

const (
	IDCardTypeID               IDCardType = "ID" // identity card
	IDCardTypePassport         IDCardType = "P"
	IDCardTypeDrivingLicense   IDCardType = "DL"
	IDCardTypeResidencePermit  IDCardType = "IR"
	IDCardTypeVisaPermit       IDCardType = "VS"
	IDCardTypeResidentialLabel IDCardType = "PS"
	IDCardTypeUnknown          IDCardType = "UNKNOWN"
)

// TrustFramework identifies the legal regime under which identity
// verification was performed.
type TrustFramework string

const (
	TrustFrameworkCzAML     TrustFramework = "cz_aml"
	TrustFrameworkDeAML     TrustFramework = "de_aml"
	TrustFrameworkEIDAS     TrustFramework = "eidas"
	TrustFrameworkNIST80063 TrustFramework = "nist_800_63A"
	TrustFrameworkJpAML     TrustFramework = "jp_aml"
	TrustFrameworkUnknown   TrustFramework = "unknown"
)

var genders = lookup(GenderFemale, GenderMale, GenderUnknown)

var maritalStatuses = lookup(
	MaritalStatusCohabitation,
	MaritalStatusMarried,
	MaritalStatusDivorced,
	MaritalStatusRegisteredPartnership,
	MaritalStatusRegisteredPartnershipCanceled,
	MaritalStatusWidowed,
	MaritalStatusSingle,
	MaritalStatusUnknown,
)

var addressTypes = lookup(
	AddressTypePermanentResidence,
	AddressTypeSecondaryResidence,
	AddressTypeUnknown,
)

var idCardTypes = withAliases(lookup(
	IDCardTypeID,
	IDCardTypePassport,
	IDCardTypeDrivingLicense,
	IDCardTypeResidencePermit,
	IDCardTypeVisaPermit,
	IDCardTypeResidentialLabel,
	IDCardTypeUnknown,
), map[string]IDCardType{
	"passport":          IDCardTypePassport,
	"driving_license":   IDCardTypeDrivingLicense,
	"residence_permit":  IDCardTypeResidencePermit,
	"visa_permit":       IDCardTypeVisaPermit,
	"residential_label": IDCardTypeResidentialLabel,
})

var trustFrameworks = lookup(
	TrustFrameworkCzAML,
	TrustFrameworkDeAML,
	TrustFrameworkEIDAS,
	TrustFrameworkNIST80063,
	TrustFrameworkJpAML,
	TrustFrameworkUnknown,
)

// ParseGender maps wire text to a Gender. The boolean is false when the text
// matched no known variant and GenderUnknown was substituted.
func ParseGender(s string) (Gender, bool) {
	return parseEnum(genders, s, GenderUnknown)
}

// ParseMaritalStatus maps wire text to a MaritalStatus, falling back to
// MaritalStatusUnknown.
func ParseMaritalStatus(s string) (MaritalStatus, bool) {
	return parseEnum(maritalStatuses, s, MaritalStatusUnknown)
}

// ParseAddressType maps wire text to an AddressType, falling back to
// AddressTypeUnknown.
func ParseAddressType(s string) (AddressType, bool) {
	return parseEnum(addressTypes, s, AddressTypeUnknown)
}

// ParseIDCardType maps a document code (ID, P, DL, IR, VS, PS) or its
// descriptive name (passport, driving_license, ...) to an IDCardType.
func ParseIDCardType(s string) (IDCardType, bool) {
	return parseEnum(idCardTypes, s, IDCardTypeUnknown)
}

// ParseTrustFramework maps wire text to a TrustFramework, falling back to
// TrustFrameworkUnknown.
func ParseTrustFramework(s string) (TrustFramework, bool) {
	return parseEnum(trustFrameworks, s, TrustFrameworkUnknown)
}

func (g Gender) String() string { return string(g) }
func (m MaritalStatus) String() string { return string(m) }
func (a AddressType) String() string { return string(a) }
func (t IDCardType) String() string { return string(t) }
func (t TrustFramework) String() string { return string(t) }
func (g Gender) IsUnknown() bool { return g == GenderUnknown }
func (m MaritalStatus) IsUnknown() bool { return m == MaritalStatusUnknown }
func (a AddressType) IsUnknown() bool { return a == AddressTypeUnknown }
func (t IDCardType) IsUnknown() bool { return t == IDCardTypeUnknown }
func (t TrustFramework) IsUnknown() bool { return t == TrustFrameworkUnknown }

// enum is the set of string-backed enumerations in this package.
type enum interface {
	~string
}

func lookup[E enum](values ...E) map[string]E {
	m := make(map[string]E, len(values))
	for _, v := range values {
		m[strings.ToLower(string(v))] = v
	}
	return m
}

func withAliases[E enum](m map[string]E, aliases map[string]E) map[string]E {
	for k, v := range aliases {
		m[k] = v
	}
	return m
}

// parseEnum matches case-insensitively. An explicit "unknown" on the wire is a
// recognized value; only unmatched text reports false.
func parseEnum[E enum](table map[string]E, s string, fallback E) (E, bool) {
	if v, ok := table[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, true
	}
	return fallback, false
}
