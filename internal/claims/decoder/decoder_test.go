package decoder_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bankid/internal/claims/decoder"
	"bankid/internal/claims/domain/claimset"
	"bankid/internal/claims/domain/product"
	"bankid/internal/claims/domain/shared"
)

type DecoderSuite struct {
	suite.Suite
	userinfo []byte
	profile  []byte
}

func TestDecoderSuite(t *testing.T) {
	suite.Run(t, new(DecoderSuite))
}

func (s *DecoderSuite) SetupSuite() {
	s.userinfo = s.fixture("userinfo.json")
	s.profile = s.fixture("profile.json")
}

func (s *DecoderSuite) fixture(name string) []byte {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	s.Require().NoError(err)
	return data
}

func (s *DecoderSuite) decode(tier shared.Tier, doc string) product.Product {
	p, err := decoder.Decode(tier, []byte(doc))
	s.Require().NoError(err)
	return p
}

func (s *DecoderSuite) TestProviderDocuments() {
	s.Run("connect from userinfo", func() {
		p, err := decoder.Decode(shared.TierConnect, s.userinfo)
		s.Require().NoError(err)

		connect, ok := p.(product.Connect)
		s.Require().True(ok)
		s.Equal("23f1ac00-5d54-4169-a288-794ae2ead0c4", connect.Subject())
		nick, ok := connect.Nickname()
		s.True(ok)
		s.Equal("Fantomas", nick)
		s.Equal("Jan Novák", *connect.VerifiedClaims().Claims().Name)

		flat := connect.Claims()
		s.Equal("JanN", *flat.PreferredUsername)
		s.False(*flat.EmailVerified)
		s.True(*flat.PhoneNumberVerified)
		s.Equal(shared.GenderMale, *flat.Gender)
		s.Equal(shared.MustBirthdate("1970-08-01"), *flat.Birthdate)
		s.Equal(int64(1568188433000), *flat.UpdatedAt)
	})

	s.Run("identify plus from profile", func() {
		p, err := decoder.Decode(shared.TierIdentifyPlus, s.profile)
		s.Require().NoError(err)

		plus, ok := p.(product.IdentifyPlus)
		s.Require().True(ok)
		s.Equal("CZ0708000000001019382023", plus.PaymentAccounts()[0])
		s.Equal(shared.MaritalStatusMarried, *plus.VerifiedClaims().Claims().MaritalStatus)

		flat := plus.Claims()
		s.Equal("7008010147", *flat.BirthNumber)
		s.Equal(50, *flat.Age)
		s.Nil(flat.DateOfDeath)
		s.Equal([]shared.CountryCode{"CZ", "AT", "SK"}, flat.Nationalities)
		s.True(flat.BirthNumberRequired())
		s.Require().Len(flat.Addresses, 1)
		s.Equal(shared.AddressTypePermanentResidence, *flat.Addresses[0].Type)
		s.Equal("186GF76", *flat.Addresses[0].RuianReference)
		s.Require().Len(flat.IDCards, 1)
		s.Equal(shared.IDCardTypeID, *flat.IDCards[0].Type)
		s.Equal(shared.MustDate("2023-10-11"), *flat.IDCards[0].ValidTo)
		s.Equal("Úřad městské části Praha 4", *flat.IDCards[0].Issuer)

		s.Nil(plus.VerifiedClaims().Claims().Addresses[0].RuianReference)
	})

	s.Run("identify aml carries verification", func() {
		p, err := decoder.Decode(shared.TierIdentifyAML, s.profile)
		s.Require().NoError(err)

		aml, ok := p.(product.IdentifyAML)
		s.Require().True(ok)
		s.Equal("CZ0708000000001019382023", aml.PaymentAccounts()[0])
		ver, ok := aml.VerifiedClaims().Verification()
		s.Require().True(ok)
		s.Equal(shared.TrustFrameworkCzAML, ver.TrustFramework())
		s.Equal("45244782", ver.VerificationProcess())
		_, hasTime := ver.Time()
		s.False(hasTime)
	})

	s.Run("identify keeps only the identity shape", func() {
		p, err := decoder.Decode(shared.TierIdentify, s.profile)
		s.Require().NoError(err)

		identify, ok := p.(product.Identify)
		s.Require().True(ok)
		s.Equal(claimset.KindIdentity, identify.Unverified().Kind())
		s.Equal("7008010147", *identify.Claims().BirthNumber)
		s.Len(identify.VerifiedClaims().Claims().Addresses, 1)
	})

	s.Run("verification time given as empty object is absent", func() {
		p, err := decoder.Decode(shared.TierIdentifyAML, s.userinfo)
		s.Require().NoError(err)
		ver, ok := p.(product.IdentifyAML).VerifiedClaims().Verification()
		s.Require().True(ok)
		_, hasTime := ver.Time()
		s.False(hasTime)
	})
}

func (s *DecoderSuite) TestMinimalConnectDocument() {
	p := s.decode(shared.TierConnect, `{"sub":"s1","txn":"t1","nickname":"Fantomas","verified_claims":{"claims":{"name":"Jan Novák"}}}`)

	connect := p.(product.Connect)
	s.Equal(shared.TierConnect, p.Tier())
	s.Equal("s1", p.Subject())
	s.Equal("t1", p.TransactionID())
	s.Equal("Fantomas", *connect.Claims().Nickname)
	s.Equal("Jan Novák", *connect.VerifiedClaims().Claims().Name)
	s.Nil(connect.Claims().Name)
	s.Nil(connect.VerifiedClaims().Claims().Nickname)
}

func (s *DecoderSuite) TestTierSelector() {
	s.Run("case-insensitive", func() {
		p := s.decode(shared.Tier("IDENTIFY_PLUS"), `{"sub":"s1","txn":"t1"}`)
		s.Equal(shared.TierIdentifyPlus, p.Tier())
	})

	s.Run("unknown tier", func() {
		_, err := decoder.Decode(shared.Tier("premium"), s.userinfo)
		s.Require().Error(err)
		s.ErrorIs(err, decoder.ErrUnknownTier)
		s.Equal(decoder.ErrorUnknownTier, decoder.GetCategory(err))
	})
}

func (s *DecoderSuite) TestUnknownEnumFallsBack() {
	base := `{"sub":"s1","txn":"t1","given_name":"Jan","birthdate":"1970-08-01","gender":%q,"maritalstatus":"MARRIED","addresses":[{"type":"PERMANENT_RESIDENCE","city":"Praha"}]}`

	var notices []decoder.Notice
	d := decoder.New(decoder.WithNoticeHook(func(n decoder.Notice) { notices = append(notices, n) }))

	odd, err := d.Decode(shared.TierIdentifyPlus, []byte(fmt.Sprintf(base, "nonbinary_x")))
	s.Require().NoError(err)
	known, err := d.Decode(shared.TierIdentifyPlus, []byte(fmt.Sprintf(base, "male")))
	s.Require().NoError(err)

	oddClaims := odd.(product.IdentifyPlus).Claims()
	knownClaims := known.(product.IdentifyPlus).Claims()
	s.Equal(shared.GenderUnknown, *oddClaims.Gender)
	s.Equal(shared.GenderMale, *knownClaims.Gender)

	oddClaims.Gender, knownClaims.Gender = nil, nil
	s.Equal(knownClaims, oddClaims, "no other field is affected")

	s.Require().Len(notices, 1)
	s.Equal(decoder.Notice{Tier: shared.TierIdentifyPlus, Path: "gender", Enum: "gender", Value: "nonbinary_x"}, notices[0])
}

func (s *DecoderSuite) TestUnknownEnumIsLogged() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := decoder.New(decoder.WithLogger(logger))

	_, err := d.Decode(shared.TierIdentifyPlus, []byte(`{"sub":"s1","txn":"t1","idcards":[{"type":"MILITARY"}],"birthdate":"01.08.1970"}`))
	s.Require().NoError(err)

	out := buf.String()
	s.Contains(out, `"level":"WARN"`)
	s.Contains(out, `"path":"idcards[0].type"`)
	s.Contains(out, `"value":"MILITARY"`)
	s.Contains(out, `"level":"DEBUG"`)
	s.Contains(out, `"path":"birthdate"`)
}

func (s *DecoderSuite) TestRejectedDocumentReportsNoNotices() {
	cases := []struct {
		name string
		tier shared.Tier
		doc  string
		path string
	}{
		{
			name: "aml verification without trust framework",
			tier: shared.TierIdentifyAML,
			doc:  `{"sub":"s1","txn":"t1","gender":"nonbinary_x","verified_claims":{"verification":{"verification_process":"45244782"},"claims":{"maritalstatus":"ENGAGED"}}}`,
			path: "verified_claims.verification.trust_framework",
		},
		{
			name: "identify with malformed verified addresses",
			tier: shared.TierIdentify,
			doc:  `{"sub":"s1","txn":"t1","gender":"nonbinary_x","verified_claims":{"claims":{"addresses":[{"type":"HOLIDAY_HOME"},"Praha"]}}}`,
			path: "verified_claims.claims.addresses[1]",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			var buf bytes.Buffer
			var notices []decoder.Notice
			d := decoder.New(
				decoder.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
				decoder.WithNoticeHook(func(n decoder.Notice) { notices = append(notices, n) }),
			)

			_, err := d.Decode(tc.tier, []byte(tc.doc))
			s.Require().Error(err)
			s.Equal(decoder.ErrorFieldParse, decoder.GetCategory(err))
			var de *decoder.DecodeError
			s.Require().ErrorAs(err, &de)
			s.Equal(tc.path, de.Path)

			s.Empty(notices)
			s.NotContains(buf.String(), "unknown claim enum value")
		})
	}
}

func (s *DecoderSuite) TestMalformedOptionalFieldsBecomeAbsent() {
	p := s.decode(shared.TierIdentifyPlus, `{
		"sub": "s1", "txn": "t1",
		"birthdate": "01.08.1970",
		"age": "50",
		"majority": "yes",
		"primary_nationality": "Czech",
		"date_of_death": "yesterday",
		"given_name": 42,
		"nationalities": ["cz", "CZ", " at ", "Austria"],
		"updated_at": 1.5
	}`)

	c := p.(product.IdentifyPlus).Claims()
	s.Nil(c.Birthdate)
	s.Nil(c.Age)
	s.Nil(c.Majority)
	s.Nil(c.PrimaryNationality)
	s.Nil(c.DateOfDeath)
	s.Nil(c.GivenName)
	s.Nil(c.UpdatedAt)
	s.Equal([]shared.CountryCode{"CZ", "AT"}, c.Nationalities)
}

func (s *DecoderSuite) TestAbsentContainers() {
	s.Run("missing verified_claims gives empty verified claims", func() {
		p := s.decode(shared.TierIdentifyAML, `{"sub":"s1","txn":"t1","pep":true}`)
		aml := p.(product.IdentifyAML)
		s.Equal(claimset.AMLClaims{}, aml.VerifiedClaims().Claims())
		_, ok := aml.VerifiedClaims().Verification()
		s.False(ok)
		s.True(*aml.Claims().PEP)
	})

	s.Run("null arrays stay absent and empty arrays stay empty", func() {
		p := s.decode(shared.TierIdentifyPlus, `{"sub":"s1","txn":"t1","addresses":null,"idcards":[]}`)
		c := p.(product.IdentifyPlus).Claims()
		s.Nil(c.Addresses)
		s.NotNil(c.IDCards)
		s.Empty(c.IDCards)
		s.Nil(c.PaymentAccounts)
	})

	s.Run("unknown keys are ignored", func() {
		p := s.decode(shared.TierConnect, `{"sub":"s1","txn":"t1","loyalty":{"level":3},"nickname":"JN"}`)
		s.Equal("JN", *p.(product.Connect).Claims().Nickname)
	})
}

func (s *DecoderSuite) TestStructuralErrors() {
	tests := []struct {
		name     string
		tier     shared.Tier
		doc      string
		category decoder.ErrorCategory
		path     string
	}{
		{"not json", shared.TierConnect, `{"sub":`, decoder.ErrorMalformedJSON, "$"},
		{"top level array", shared.TierConnect, `[{"sub":"s1"}]`, decoder.ErrorFieldParse, "$"},
		{"missing sub", shared.TierConnect, `{"txn":"t1"}`, decoder.ErrorFieldParse, "sub"},
		{"empty sub", shared.TierConnect, `{"sub":"","txn":"t1"}`, decoder.ErrorFieldParse, "sub"},
		{"numeric txn", shared.TierIdentify, `{"sub":"s1","txn":7}`, decoder.ErrorFieldParse, "txn"},
		{"verified claims not an object", shared.TierIdentify, `{"sub":"s1","txn":"t1","verified_claims":"yes"}`, decoder.ErrorFieldParse, "verified_claims"},
		{"claims not an object", shared.TierConnect, `{"sub":"s1","txn":"t1","verified_claims":{"claims":[]}}`, decoder.ErrorFieldParse, "verified_claims.claims"},
		{"addresses not an array", shared.TierIdentify, `{"sub":"s1","txn":"t1","addresses":{"city":"Praha"}}`, decoder.ErrorFieldParse, "addresses"},
		{"address not an object", shared.TierIdentify, `{"sub":"s1","txn":"t1","verified_claims":{"claims":{"addresses":[{},"Praha"]}}}`, decoder.ErrorFieldParse, "verified_claims.claims.addresses[1]"},
		{"payment account not a string", shared.TierIdentifyPlus, `{"sub":"s1","txn":"t1","paymentAccounts":["CZ07",7]}`, decoder.ErrorFieldParse, "paymentAccounts[1]"},
		{"verification without process", shared.TierIdentifyAML, `{"sub":"s1","txn":"t1","verified_claims":{"verification":{"trust_framework":"cz_aml"}}}`, decoder.ErrorFieldParse, "verified_claims.verification.verification_process"},
		{"verification without framework", shared.TierIdentifyAML, `{"sub":"s1","txn":"t1","verified_claims":{"verification":{"verification_process":"1"}}}`, decoder.ErrorFieldParse, "verified_claims.verification.trust_framework"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			p, err := decoder.Decode(tt.tier, []byte(tt.doc))
			s.Require().Error(err)
			s.Nil(p)

			var de *decoder.DecodeError
			s.Require().ErrorAs(err, &de)
			s.Equal(tt.category, de.Category)
			s.Equal(tt.path, de.Path)
			if tt.category == decoder.ErrorFieldParse {
				s.ErrorIs(err, decoder.ErrFieldParse)
			} else {
				s.ErrorIs(err, decoder.ErrMalformedJSON)
			}
		})
	}
}

func (s *DecoderSuite) TestVerificationTime() {
	p := s.decode(shared.TierIdentifyAML, `{"sub":"s1","txn":"t1","verified_claims":{"verification":{"trust_framework":"eidas","time":"2021-03-04T12:00:00+01:00","verification_process":"45244782"},"claims":{}}}`)

	ver, ok := p.(product.IdentifyAML).VerifiedClaims().Verification()
	s.Require().True(ok)
	s.Equal(shared.TrustFrameworkEIDAS, ver.TrustFramework())
	at, ok := ver.Time()
	s.Require().True(ok)
	s.Equal(time.Date(2021, 3, 4, 11, 0, 0, 0, time.UTC), at)
}

func (s *DecoderSuite) TestDeterministic() {
	for _, tier := range shared.Tiers() {
		s.Run(tier.String(), func() {
			first, err := decoder.Decode(tier, s.profile)
			s.Require().NoError(err)
			second, err := decoder.Decode(tier, s.profile)
			s.Require().NoError(err)
			s.Equal(first, second)
		})
	}
}

func (s *DecoderSuite) TestWireRoundTrip() {
	for _, tier := range shared.Tiers() {
		for name, doc := range map[string][]byte{"userinfo": s.userinfo, "profile": s.profile} {
			s.Run(tier.String()+"/"+name, func() {
				decoded, err := decoder.Decode(tier, doc)
				s.Require().NoError(err)

				encoded, err := json.Marshal(decoded)
				s.Require().NoError(err)

				again, err := decoder.Decode(tier, encoded)
				s.Require().NoError(err)
				s.Equal(decoded, again)
			})
		}
	}
}

func (s *DecoderSuite) TestConcurrentUse() {
	d := decoder.New()
	var wg sync.WaitGroup
	results := make([]product.Product, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := d.Decode(shared.TierIdentifyAML, s.profile)
			if err == nil {
				results[i] = p
			}
		}()
	}
	wg.Wait()

	for _, p := range results {
		s.Equal(results[0], p)
	}
	s.NotNil(results[0])
}
