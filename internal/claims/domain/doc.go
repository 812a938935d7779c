// Package domain contains the pure domain model for the Claims bounded context.
//
// # Claims Bounded Context
//
// The Claims context models the identity-assurance products returned by the
// BankID identity provider. Each product is a bundle of personal-data claims
// delivered in two views: a flat, unverified view and a nested verified view
// that carries the provider's verification guarantee.
//
// # Subdomain Structure
//
//	claims/domain/
//	├── shared/     # Shared Kernel - tiers, enums, dates, country codes
//	├── claimset/   # Claim sets per tier, addresses and ID documents
//	├── verified/   # Verified-claims wrappers and verification provenance
//	└── product/    # Tier-tagged products composing the two views
//
// # Tiers
//
//	Tier            Flat claims          Verified claims
//	─────────────   ──────────────────   ───────────────────────────────────
//	connect         ConnectClaims        ConnectVerified
//	identify        IdentityClaims       IdentifyVerified
//	identify_plus   IdentityPlusClaims   IdentifyPlusVerified
//	identify_aml    IdentityPlusClaims   IdentifyAMLVerified (+ Verification)
//
// Key Invariants:
//   - A verified wrapper only ever holds the claim set shape of its own tier;
//     construction with any other shape fails with verified.ErrTierMismatch.
//   - Verification provenance exists only on the AML wrapper.
//   - The flat and verified views are independent; only fields present in the
//     verified claims carry the provider's guarantee.
//   - Absent claims are nil, never an empty string or zero value.
//
// # Domain Purity
//
// All packages below this one follow strict domain purity rules:
//
//	✓ No I/O (no network, filesystem or logging)
//	✓ No context.Context in function signatures
//	✓ No time.Now() calls
//	✓ Values are immutable once constructed by the decoder
//
// The decoder package turns a JSON document into these types; the service
// package coordinates fetching, decoding and observability.
package domain
