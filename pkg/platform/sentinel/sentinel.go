package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Clients and transport layers return
// these (optionally wrapped) so callers can classify failures without knowing
// which provider produced them.
//
//   - ErrNotFound: the provider has no resource for the request
//   - ErrUnavailable: the provider is temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
