// Package verified holds the verified-claims wrappers of each product tier.
//
// A wrapper is the only place verified data lives. It keeps relying parties
// from mixing verified and unverified claims: the claims inside a wrapper are
// always the shape of the wrapper's own tier, and verification provenance is
// attached only where the provider delivers it (the AML tier).
//
// Wrappers are built through checked constructors that accept any
// claimset.ClaimSet and fail with ErrTierMismatch when its shape does not
// match. There is no way to install a narrower or unrelated claim set.
package verified

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bankid/internal/claims/domain/claimset"
	"bankid/internal/claims/domain/shared"
)

// ErrTierMismatch indicates a claim set whose shape does not belong to the
// wrapper's tier.
var ErrTierMismatch = errors.New("tier mismatch")

// VerifiedClaims is implemented by every tier's wrapper.
type VerifiedClaims interface {
	// Tier reports the product tier the wrapper belongs to.
	Tier() shared.Tier
	// ClaimSet returns the verified claims as the tier-agnostic interface.
	ClaimSet() claimset.ClaimSet
}

// Verification describes the process that verified the person's identity.
//
// Invariants:
//   - TrustFramework is always set (unknown frameworks use TrustFrameworkUnknown)
//   - Time, when present, is UTC
type Verification struct {
	trustFramework      shared.TrustFramework
	time                *time.Time
	verificationProcess string
}

// NewVerification builds verification provenance. verificationProcess is the
// registered tax number of the institution that identified the person.
func NewVerification(trustFramework shared.TrustFramework, at *time.Time, verificationProcess string) Verification {
	if trustFramework == "" {
		trustFramework = shared.TrustFrameworkUnknown
	}
	var t *time.Time
	if at != nil {
		utc := at.UTC()
		t = &utc
	}
	return Verification{
		trustFramework:      trustFramework,
		time:                t,
		verificationProcess: verificationProcess,
	}
}

// TrustFramework returns the regime the verification was performed under.
func (v Verification) TrustFramework() shared.TrustFramework {
	return v.trustFramework
}

// Time returns when verification took place; false when not delivered.
func (v Verification) Time() (time.Time, bool) {
	if v.time == nil {
		return time.Time{}, false
	}
	return *v.time, true
}

// VerificationProcess returns the reference to the verification process.
func (v Verification) VerificationProcess() string {
	return v.verificationProcess
}

// MarshalJSON encodes the provider's wire form.
func (v Verification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TrustFramework      shared.TrustFramework `json:"trust_framework"`
		Time                *time.Time            `json:"time,omitempty"`
		VerificationProcess string                `json:"verification_process"`
	}{v.trustFramework, v.time, v.verificationProcess})
}

// ConnectVerified wraps the verified claims of the Connect product.
type ConnectVerified struct {
	claims claimset.ConnectClaims
}

// NewConnectVerified accepts only claimset.ConnectClaims.
func NewConnectVerified(c claimset.ClaimSet) (ConnectVerified, error) {
	claims, ok := c.(claimset.ConnectClaims)
	if !ok {
		return ConnectVerified{}, mismatch(shared.TierConnect, c)
	}
	return ConnectVerified{claims: claims}, nil
}

func (ConnectVerified) Tier() shared.Tier { return shared.TierConnect }

// Claims returns the verified Connect claims.
func (v ConnectVerified) Claims() claimset.ConnectClaims { return v.claims }

func (v ConnectVerified) ClaimSet() claimset.ClaimSet { return v.claims }

func (v ConnectVerified) MarshalJSON() ([]byte, error) {
	return marshalWrapper(v.claims, nil)
}

// IdentifyVerified wraps the verified claims of the Identify product.
type IdentifyVerified struct {
	claims claimset.IdentityClaims
}

// NewIdentifyVerified accepts only claimset.IdentityClaims; richer Identify
// Plus claims are rejected as well.
func NewIdentifyVerified(c claimset.ClaimSet) (IdentifyVerified, error) {
	claims, ok := c.(claimset.IdentityClaims)
	if !ok {
		return IdentifyVerified{}, mismatch(shared.TierIdentify, c)
	}
	return IdentifyVerified{claims: claims}, nil
}

func (IdentifyVerified) Tier() shared.Tier { return shared.TierIdentify }

// Claims returns the verified Identify claims.
func (v IdentifyVerified) Claims() claimset.IdentityClaims { return v.claims }

func (v IdentifyVerified) ClaimSet() claimset.ClaimSet { return v.claims }

func (v IdentifyVerified) MarshalJSON() ([]byte, error) {
	return marshalWrapper(v.claims, nil)
}

// IdentifyPlusVerified wraps the verified claims of the Identify Plus product.
type IdentifyPlusVerified struct {
	claims claimset.IdentityPlusClaims
}

// NewIdentifyPlusVerified accepts only claimset.IdentityPlusClaims.
func NewIdentifyPlusVerified(c claimset.ClaimSet) (IdentifyPlusVerified, error) {
	claims, ok := c.(claimset.IdentityPlusClaims)
	if !ok {
		return IdentifyPlusVerified{}, mismatch(shared.TierIdentifyPlus, c)
	}
	return IdentifyPlusVerified{claims: claims}, nil
}

func (IdentifyPlusVerified) Tier() shared.Tier { return shared.TierIdentifyPlus }

// Claims returns the verified Identify Plus claims.
func (v IdentifyPlusVerified) Claims() claimset.IdentityPlusClaims { return v.claims }

func (v IdentifyPlusVerified) ClaimSet() claimset.ClaimSet { return v.claims }

func (v IdentifyPlusVerified) MarshalJSON() ([]byte, error) {
	return marshalWrapper(v.claims, nil)
}

// IdentifyAMLVerified wraps the verified claims of the Identify AML product
// together with the verification provenance.
type IdentifyAMLVerified struct {
	claims       claimset.AMLClaims
	verification *Verification
}

// NewIdentifyAMLVerified accepts only claimset.AMLClaims. verification may be
// nil when the provider omitted it.
func NewIdentifyAMLVerified(c claimset.ClaimSet, verification *Verification) (IdentifyAMLVerified, error) {
	claims, ok := c.(claimset.AMLClaims)
	if !ok {
		return IdentifyAMLVerified{}, mismatch(shared.TierIdentifyAML, c)
	}
	return IdentifyAMLVerified{claims: claims, verification: verification}, nil
}

func (IdentifyAMLVerified) Tier() shared.Tier { return shared.TierIdentifyAML }

// Claims returns the verified AML claims.
func (v IdentifyAMLVerified) Claims() claimset.AMLClaims { return v.claims }

func (v IdentifyAMLVerified) ClaimSet() claimset.ClaimSet { return v.claims }

// Verification returns the verification provenance; false when not delivered.
func (v IdentifyAMLVerified) Verification() (Verification, bool) {
	if v.verification == nil {
		return Verification{}, false
	}
	return *v.verification, true
}

func (v IdentifyAMLVerified) MarshalJSON() ([]byte, error) {
	return marshalWrapper(v.claims, v.verification)
}

func mismatch(tier shared.Tier, c claimset.ClaimSet) error {
	if c == nil {
		return fmt.Errorf("%w: %s wrapper given no claims", ErrTierMismatch, tier)
	}
	return fmt.Errorf("%w: %s wrapper cannot hold %s claims", ErrTierMismatch, tier, c.Kind())
}

func marshalWrapper(claims any, verification *Verification) ([]byte, error) {
	return json.Marshal(struct {
		Verification *Verification `json:"verification,omitempty"`
		Claims       any           `json:"claims"`
	}{verification, claims})
}
