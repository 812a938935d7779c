package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bankid/internal/claims/domain/shared"
)

type SharedKernelSuite struct {
	suite.Suite
}

func TestSharedKernelSuite(t *testing.T) {
	suite.Run(t, new(SharedKernelSuite))
}

func (s *SharedKernelSuite) TestParseTier() {
	s.Run("accepts every supported tier", func() {
		for _, tier := range shared.Tiers() {
			parsed, err := shared.ParseTier(tier.String())
			s.Require().NoError(err)
			s.Equal(tier, parsed)
		}
	})

	s.Run("normalizes case and whitespace", func() {
		parsed, err := shared.ParseTier("  Identify_AML ")
		s.Require().NoError(err)
		s.Equal(shared.TierIdentifyAML, parsed)
	})

	s.Run("rejects unknown selector", func() {
		_, err := shared.ParseTier("identify_premium")
		s.Require().Error(err)
		s.ErrorIs(err, shared.ErrUnknownTier)
	})

	s.Run("rejects empty selector", func() {
		_, err := shared.ParseTier("")
		s.ErrorIs(err, shared.ErrUnknownTier)
	})

	s.Run("identify lineage", func() {
		s.False(shared.TierConnect.IsIdentify())
		s.True(shared.TierIdentify.IsIdentify())
		s.True(shared.TierIdentifyPlus.IsIdentify())
		s.True(shared.TierIdentifyAML.IsIdentify())
	})
}

func (s *SharedKernelSuite) TestEnumFallback() {
	s.Run("gender known values", func() {
		g, ok := shared.ParseGender("male")
		s.True(ok)
		s.Equal(shared.GenderMale, g)

		g, ok = shared.ParseGender("FEMALE")
		s.True(ok)
		s.Equal(shared.GenderFemale, g)
	})

	s.Run("gender unrecognized maps to unknown", func() {
		g, ok := shared.ParseGender("nonbinary_x")
		s.False(ok)
		s.Equal(shared.GenderUnknown, g)
		s.True(g.IsUnknown())
	})

	s.Run("explicit unknown is recognized", func() {
		m, ok := shared.ParseMaritalStatus("UNKNOWN")
		s.True(ok)
		s.Equal(shared.MaritalStatusUnknown, m)
	})

	s.Run("marital status is case-insensitive", func() {
		m, ok := shared.ParseMaritalStatus("registered_partnership_canceled")
		s.True(ok)
		s.Equal(shared.MaritalStatusRegisteredPartnershipCanceled, m)
	})

	s.Run("marital status unrecognized", func() {
		m, ok := shared.ParseMaritalStatus("ENGAGED")
		s.False(ok)
		s.Equal(shared.MaritalStatusUnknown, m)
	})

	s.Run("address type", func() {
		a, ok := shared.ParseAddressType("PERMANENT_RESIDENCE")
		s.True(ok)
		s.Equal(shared.AddressTypePermanentResidence, a)

		a, ok = shared.ParseAddressType("HOLIDAY_HOME")
		s.False(ok)
		s.Equal(shared.AddressTypeUnknown, a)
	})

	s.Run("id card codes and names", func() {
		for input, want := range map[string]shared.IDCardType{
			"ID":              shared.IDCardTypeID,
			"P":               shared.IDCardTypePassport,
			"passport":        shared.IDCardTypePassport,
			"dl":              shared.IDCardTypeDrivingLicense,
			"driving_license": shared.IDCardTypeDrivingLicense,
			"IR":              shared.IDCardTypeResidencePermit,
			"VS":              shared.IDCardTypeVisaPermit,
			"PS":              shared.IDCardTypeResidentialLabel,
		} {
			got, ok := shared.ParseIDCardType(input)
			s.True(ok, input)
			s.Equal(want, got, input)
		}

		got, ok := shared.ParseIDCardType("XX")
		s.False(ok)
		s.Equal(shared.IDCardTypeUnknown, got)
	})

	s.Run("trust framework", func() {
		tf, ok := shared.ParseTrustFramework("cz_aml")
		s.True(ok)
		s.Equal(shared.TrustFrameworkCzAML, tf)

		tf, ok = shared.ParseTrustFramework("nist_800_63A")
		s.True(ok)
		s.Equal(shared.TrustFrameworkNIST80063, tf)

		tf, ok = shared.ParseTrustFramework("xx_kyc")
		s.False(ok)
		s.Equal(shared.TrustFrameworkUnknown, tf)
	})
}

func (s *SharedKernelSuite) TestBirthdate() {
	s.Run("full date", func() {
		b, err := shared.ParseBirthdate("1970-08-01")
		s.Require().NoError(err)
		year, ok := b.Year()
		s.True(ok)
		s.Equal(1970, year)
		month, ok := b.Month()
		s.True(ok)
		s.Equal(time.August, month)
		day, ok := b.Day()
		s.True(ok)
		s.Equal(1, day)
		s.False(b.IsYearOnly())
		s.Equal("1970-08-01", b.String())
	})

	s.Run("year only", func() {
		b, err := shared.ParseBirthdate("1970")
		s.Require().NoError(err)
		s.True(b.IsYearOnly())
		_, ok := b.Month()
		s.False(ok)
		s.Equal("1970", b.String())
	})

	s.Run("omitted year", func() {
		b, err := shared.ParseBirthdate("0000-02-29")
		s.Require().NoError(err)
		_, ok := b.Year()
		s.False(ok)
		month, ok := b.Month()
		s.True(ok)
		s.Equal(time.February, month)
		s.Equal("0000-02-29", b.String())
	})

	s.Run("rejects malformed values", func() {
		for _, input := range []string{"", "0000", "70-08-01", "1970/08/01", "1970-13-01", "1971-02-29", "19a0", "1970-08-01T00:00:00Z"} {
			_, err := shared.ParseBirthdate(input)
			s.ErrorIs(err, shared.ErrInvalidBirthdate, input)
		}
	})

	s.Run("age at instant", func() {
		b := shared.MustBirthdate("1970-08-01")
		age, ok := b.AgeAt(time.Date(2020, 7, 31, 12, 0, 0, 0, time.UTC))
		s.True(ok)
		s.Equal(49, age)

		age, ok = b.AgeAt(time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC))
		s.True(ok)
		s.Equal(50, age)

		_, ok = shared.MustBirthdate("1970").AgeAt(time.Now())
		s.False(ok)
	})
}

func (s *SharedKernelSuite) TestDate() {
	s.Run("parses calendar date", func() {
		d, err := shared.ParseDate("2023-10-11")
		s.Require().NoError(err)
		s.Equal(time.Date(2023, 10, 11, 0, 0, 0, 0, time.UTC), d.Time())
		s.Equal("2023-10-11", d.String())
	})

	s.Run("rejects malformed", func() {
		_, err := shared.ParseDate("11.10.2023")
		s.ErrorIs(err, shared.ErrInvalidDate)
	})

	s.Run("before compares by day", func() {
		d := shared.MustDate("2023-10-11")
		s.False(d.Before(time.Date(2023, 10, 11, 23, 59, 0, 0, time.UTC)))
		s.True(d.Before(time.Date(2023, 10, 12, 0, 0, 1, 0, time.UTC)))
	})
}

func (s *SharedKernelSuite) TestTimestamp() {
	want := time.Date(2021, 3, 4, 10, 20, 30, 0, time.UTC)

	for _, input := range []string{
		"2021-03-04T10:20:30Z",
		"2021-03-04T12:20:30+02:00",
		"2021-03-04T12:20:30+02",
		"2021-03-04T12:20:30+0200",
		"2021-03-04T10:20:30",
	} {
		got, err := shared.ParseTimestamp(input)
		s.Require().NoError(err, input)
		s.True(want.Equal(got), input)
		s.Equal(time.UTC, got.Location(), input)
	}

	_, err := shared.ParseTimestamp("yesterday")
	s.ErrorIs(err, shared.ErrInvalidTimestamp)
}

func (s *SharedKernelSuite) TestCountryCode() {
	c, err := shared.ParseCountryCode(" cz ")
	s.Require().NoError(err)
	s.Equal(shared.CountryCzechRepublic, c)

	_, err = shared.ParseCountryCode("CZE")
	s.ErrorIs(err, shared.ErrInvalidCountryCode)
}
