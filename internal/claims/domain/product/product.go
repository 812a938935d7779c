// Package product defines the four BankID identity products.
//
// Each product is an independent composition of a subject, a transaction
// identifier, a flat claim set (the unverified view) and a verified-claims
// wrapper (the verified view). Products do not extend one another; the tier is
// chosen once, when the decoder builds the product.
//
// The two views are independent: a consumer must not assume the flat claims
// equal the verified ones. Only fields present in the verified wrapper carry
// the provider's verification guarantee.
package product

import (
	"encoding/json"
	"errors"

	"bankid/internal/claims/domain/claimset"
	"bankid/internal/claims/domain/shared"
	"bankid/internal/claims/domain/verified"
)

// Product is the contract shared by every tier.
type Product interface {
	// Tier reports which product this is.
	Tier() shared.Tier
	// Subject returns the stable, opaque end-user identifier (sub).
	Subject() string
	// TransactionID returns the provider's transaction identifier (txn).
	TransactionID() string
	// Unverified returns the flat claim view.
	Unverified() claimset.ClaimSet
	// Verified returns the verified-claims wrapper.
	Verified() verified.VerifiedClaims
}

var (
	// ErrMissingSubject indicates a product built without a subject.
	ErrMissingSubject = errors.New("product: subject is required")
	// ErrMissingTransaction indicates a product built without a transaction id.
	ErrMissingTransaction = errors.New("product: transaction id is required")
)

type header struct {
	subject string
	txn     string
}

func newHeader(subject, txn string) (header, error) {
	if subject == "" {
		return header{}, ErrMissingSubject
	}
	if txn == "" {
		return header{}, ErrMissingTransaction
	}
	return header{subject: subject, txn: txn}, nil
}

func (h header) Subject() string { return h.subject }
func (h header) TransactionID() string { return h.txn }

// Connect is the authentication product with the userinfo dataset.
type Connect struct {
	header
	claims   claimset.ConnectClaims
	verified verified.ConnectVerified
}

// NewConnect composes a Connect product.
func NewConnect(subject, txn string, claims claimset.ConnectClaims, v verified.ConnectVerified) (Connect, error) {
	h, err := newHeader(subject, txn)
	if err != nil {
		return Connect{}, err
	}
	return Connect{header: h, claims: claims, verified: v}, nil
}

func (Connect) Tier() shared.Tier { return shared.TierConnect }
func (p Connect) Unverified() claimset.ClaimSet { return p.claims }
func (p Connect) Verified() verified.VerifiedClaims { return p.verified }
func (p Connect) Claims() claimset.ConnectClaims { return p.claims }
func (p Connect) VerifiedClaims() verified.ConnectVerified { return p.verified }

// Nickname returns the unverified nickname; false when absent.
func (p Connect) Nickname() (string, bool) {
	return deref(p.claims.Nickname)
}

func (p Connect) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sub string `json:"sub"`
		Txn string `json:"txn"`
		claimset.ConnectClaims
		VerifiedClaims verified.ConnectVerified `json:"verified_claims"`
	}{p.subject, p.txn, p.claims, p.verified})
}

// Identify is the KYC product.
type Identify struct {
	header
	claims   claimset.IdentityClaims
	verified verified.IdentifyVerified
}

// NewIdentify composes an Identify product.
func NewIdentify(subject, txn string, claims claimset.IdentityClaims, v verified.IdentifyVerified) (Identify, error) {
	h, err := newHeader(subject, txn)
	if err != nil {
		return Identify{}, err
	}
	return Identify{header: h, claims: claims, verified: v}, nil
}

func (Identify) Tier() shared.Tier { return shared.TierIdentify }
func (p Identify) Unverified() claimset.ClaimSet { return p.claims }
func (p Identify) Verified() verified.VerifiedClaims { return p.verified }
func (p Identify) Claims() claimset.IdentityClaims { return p.claims }
func (p Identify) VerifiedClaims() verified.IdentifyVerified { return p.verified }

func (p Identify) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sub string `json:"sub"`
		Txn string `json:"txn"`
		claimset.IdentityClaims
		VerifiedClaims verified.IdentifyVerified `json:"verified_claims"`
	}{p.subject, p.txn, p.claims, p.verified})
}

// IdentifyPlus is the extended KYC product.
type IdentifyPlus struct {
	header
	claims   claimset.IdentityPlusClaims
	verified verified.IdentifyPlusVerified
}

// NewIdentifyPlus composes an Identify Plus product.
func NewIdentifyPlus(subject, txn string, claims claimset.IdentityPlusClaims, v verified.IdentifyPlusVerified) (IdentifyPlus, error) {
	h, err := newHeader(subject, txn)
	if err != nil {
		return IdentifyPlus{}, err
	}
	return IdentifyPlus{header: h, claims: claims, verified: v}, nil
}

func (IdentifyPlus) Tier() shared.Tier { return shared.TierIdentifyPlus }
func (p IdentifyPlus) Unverified() claimset.ClaimSet { return p.claims }
func (p IdentifyPlus) Verified() verified.VerifiedClaims { return p.verified }
func (p IdentifyPlus) Claims() claimset.IdentityPlusClaims { return p.claims }
func (p IdentifyPlus) VerifiedClaims() verified.IdentifyPlusVerified { return p.verified }

// PaymentAccounts returns the unverified payment accounts (IBANs).
func (p IdentifyPlus) PaymentAccounts() []string {
	return p.claims.PaymentAccounts
}

func (p IdentifyPlus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sub string `json:"sub"`
		Txn string `json:"txn"`
		claimset.IdentityPlusClaims
		VerifiedClaims verified.IdentifyPlusVerified `json:"verified_claims"`
	}{p.subject, p.txn, p.claims, p.verified})
}

// IdentifyAML is the KYC product for anti-money-laundering onboarding. It has
// the Identify Plus claim shape and adds verification provenance.
type IdentifyAML struct {
	header
	claims   claimset.AMLClaims
	verified verified.IdentifyAMLVerified
}

// NewIdentifyAML composes an Identify AML product.
func NewIdentifyAML(subject, txn string, claims claimset.AMLClaims, v verified.IdentifyAMLVerified) (IdentifyAML, error) {
	h, err := newHeader(subject, txn)
	if err != nil {
		return IdentifyAML{}, err
	}
	return IdentifyAML{header: h, claims: claims, verified: v}, nil
}

func (IdentifyAML) Tier() shared.Tier { return shared.TierIdentifyAML }
func (p IdentifyAML) Unverified() claimset.ClaimSet { return p.claims }
func (p IdentifyAML) Verified() verified.VerifiedClaims { return p.verified }
func (p IdentifyAML) Claims() claimset.AMLClaims { return p.claims }
func (p IdentifyAML) VerifiedClaims() verified.IdentifyAMLVerified { return p.verified }

// PaymentAccounts returns the unverified payment accounts (IBANs).
func (p IdentifyAML) PaymentAccounts() []string {
	return p.claims.PaymentAccounts
}

func (p IdentifyAML) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sub string `json:"sub"`
		Txn string `json:"txn"`
		claimset.AMLClaims
		VerifiedClaims verified.IdentifyAMLVerified `json:"verified_claims"`
	}{p.subject, p.txn, p.claims, p.verified})
}

func deref[T any](v *T) (T, bool) {
	if v == nil {
		var zero T
		return zero, false
	}
	return *v, true
}
