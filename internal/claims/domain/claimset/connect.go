package claimset

import (
	"time"

	"bankid/internal/claims/domain/shared"
)

// ConnectClaims is the standard OIDC profile delivered by the Connect product
// from the userinfo endpoint.
type ConnectClaims struct {
	BasicClaims

	Name                *string        `json:"name,omitempty"`
	Nickname            *string        `json:"nickname,omitempty"`
	PreferredUsername   *string        `json:"preferred_username,omitempty"`
	EmailVerified       *bool          `json:"email_verified,omitempty"`
	Gender              *shared.Gender `json:"gender,omitempty"`
	Zoneinfo            *string        `json:"zoneinfo,omitempty"`
	Locale              *string        `json:"locale,omitempty"`
	PhoneNumberVerified *bool          `json:"phone_number_verified,omitempty"`
	UpdatedAt           *int64         `json:"updated_at,omitempty"`
}

// Kind implements ClaimSet.
func (ConnectClaims) Kind() Kind { return KindConnect }

// UpdatedTime returns UpdatedAt as a time; false when absent.
func (c ConnectClaims) UpdatedTime() (time.Time, bool) {
	return epochTime(c.UpdatedAt)
}

// HasVerifiedEmail reports an e-mail address the provider marked as verified.
func (c ConnectClaims) HasVerifiedEmail() bool {
	return c.Email != nil && c.EmailVerified != nil && *c.EmailVerified
}

// HasVerifiedPhoneNumber reports a phone number the provider marked as verified.
func (c ConnectClaims) HasVerifiedPhoneNumber() bool {
	return c.PhoneNumber != nil && c.PhoneNumberVerified != nil && *c.PhoneNumberVerified
}
