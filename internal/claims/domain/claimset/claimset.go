// Package claimset defines the claim sets delivered by each BankID product tier.
//
// Claim sets are plain value objects: construction is data assignment with no
// cross-field validation. Every claim is optional and absent claims are nil,
// which keeps "not delivered" distinct from an empty string or a zero number.
//
// The Identify lineage is built by composition:
//
//	BasicClaims ⊂ IdentityClaims ⊂ IdentityPlusClaims (= AMLClaims)
//
// ConnectClaims reuses BasicClaims but is otherwise independent of that lineage.
package claimset

import "time"

// Kind tags the concrete shape of a claim set.
type Kind string

const (
	KindBasic        Kind = "basic"
	KindIdentity     Kind = "identity"
	KindIdentityPlus Kind = "identity_plus"
	KindConnect      Kind = "connect"
)

// ClaimSet is implemented by every tier's claim set.
type ClaimSet interface {
	// Kind reports the concrete shape, used by verified wrappers to reject
	// claim sets that belong to another tier.
	Kind() Kind
}

// Ptr returns a pointer to v. Useful when building claim sets by hand.
func Ptr[T any](v T) *T {
	return &v
}

// epochTime interprets an updated_at claim as unix seconds.
func epochTime(v *int64) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	return time.Unix(*v, 0).UTC(), true
}
