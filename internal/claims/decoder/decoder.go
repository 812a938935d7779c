// Package decoder turns an identity provider document into a typed product.
//
// Decoding is schema-driven: each tier has an explicit mapping from JSON keys
// to claim fields, so the handling of every field is a deliberate choice:
//
//   - Unknown keys are ignored.
//   - Absent or null optional fields stay absent (nil).
//   - Optional scalars of the wrong type, or that fail to parse (dates,
//     country codes), are dropped to absent and logged at DEBUG.
//   - Unrecognized enum text resolves to the enum's unknown variant and is
//     reported as a Notice once the decode succeeds; it never fails the
//     decode, and a rejected document reports no notices.
//   - Structural violations (sub/txn missing, verified_claims or an array that
//     has the wrong shape) fail the whole decode with a *DecodeError naming the
//     field path.
//
// The package performs no I/O and holds no shared mutable state; a Decoder is
// safe for concurrent use.
package decoder

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	"bankid/internal/claims/domain/claimset"
	"bankid/internal/claims/domain/product"
	"bankid/internal/claims/domain/shared"
	"bankid/internal/claims/domain/verified"
)

// Notice describes an enum value that did not match any known variant.
type Notice struct {
	Tier  shared.Tier
	Path  string
	Enum  string
	Value string
}

// Decoder decodes provider documents into products.
type Decoder struct {
	logger   *slog.Logger
	onNotice func(Notice)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger for notices and dropped fields.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithNoticeHook registers fn to receive every unknown-enum notice. fn is
// called synchronously and must be safe for concurrent use.
func WithNoticeHook(fn func(Notice)) Option {
	return func(d *Decoder) {
		d.onNotice = fn
	}
}

// New creates a Decoder. Without options it logs nowhere.
func New(opts ...Option) *Decoder {
	d := &Decoder{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var std = New()

// Decode decodes data as the given tier using a silent Decoder.
func Decode(tier shared.Tier, data []byte) (product.Product, error) {
	return std.Decode(tier, data)
}

// Decode decodes data as the given tier. The tier selector is matched
// case-insensitively. The result is either a complete product or an error,
// never a partial product.
func (d *Decoder) Decode(tier shared.Tier, data []byte) (product.Product, error) {
	t, err := shared.ParseTier(string(tier))
	if err != nil {
		return nil, &DecodeError{Category: ErrorUnknownTier, Path: "tier", Underlying: err}
	}
	if !gjson.ValidBytes(data) {
		return nil, malformed()
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fieldError("$", "object")
	}

	sc := &scan{decoder: d, tier: t}
	p, err := decodeDocument(t, object{res: root, sc: sc})
	if err != nil {
		return nil, err
	}
	sc.report()
	return p, nil
}

func decodeDocument(t shared.Tier, doc object) (product.Product, error) {
	sub, err := doc.required("sub")
	if err != nil {
		return nil, err
	}
	txn, err := doc.required("txn")
	if err != nil {
		return nil, err
	}
	vc, _, err := doc.child("verified_claims")
	if err != nil {
		return nil, err
	}
	inner, _, err := vc.child("claims")
	if err != nil {
		return nil, err
	}

	switch t {
	case shared.TierConnect:
		return decodeConnect(doc, inner, sub, txn)
	case shared.TierIdentify:
		return decodeIdentify(doc, inner, sub, txn)
	case shared.TierIdentifyPlus:
		return decodeIdentifyPlus(doc, inner, sub, txn)
	case shared.TierIdentifyAML:
		return decodeIdentifyAML(doc, vc, inner, sub, txn)
	}
	return nil, &DecodeError{Category: ErrorUnknownTier, Path: "tier", Underlying: fmt.Errorf("%w: %q", ErrUnknownTier, t)}
}

func decodeConnect(doc, inner object, sub, txn string) (product.Product, error) {
	v, err := verified.NewConnectVerified(connectClaims(inner))
	if err != nil {
		return nil, mismatch(inner.path, err)
	}
	p, err := product.NewConnect(sub, txn, connectClaims(doc), v)
	if err != nil {
		return nil, internal(err)
	}
	return p, nil
}

func decodeIdentify(doc, inner object, sub, txn string) (product.Product, error) {
	flat, err := identityClaims(doc)
	if err != nil {
		return nil, err
	}
	claims, err := identityClaims(inner)
	if err != nil {
		return nil, err
	}
	v, err := verified.NewIdentifyVerified(claims)
	if err != nil {
		return nil, mismatch(inner.path, err)
	}
	p, err := product.NewIdentify(sub, txn, flat, v)
	if err != nil {
		return nil, internal(err)
	}
	return p, nil
}

func decodeIdentifyPlus(doc, inner object, sub, txn string) (product.Product, error) {
	flat, err := identityPlusClaims(doc)
	if err != nil {
		return nil, err
	}
	claims, err := identityPlusClaims(inner)
	if err != nil {
		return nil, err
	}
	v, err := verified.NewIdentifyPlusVerified(claims)
	if err != nil {
		return nil, mismatch(inner.path, err)
	}
	p, err := product.NewIdentifyPlus(sub, txn, flat, v)
	if err != nil {
		return nil, internal(err)
	}
	return p, nil
}

func decodeIdentifyAML(doc, vc, inner object, sub, txn string) (product.Product, error) {
	flat, err := identityPlusClaims(doc)
	if err != nil {
		return nil, err
	}
	claims, err := identityPlusClaims(inner)
	if err != nil {
		return nil, err
	}
	ver, err := verification(vc)
	if err != nil {
		return nil, err
	}
	v, err := verified.NewIdentifyAMLVerified(claimset.AMLClaims(claims), ver)
	if err != nil {
		return nil, mismatch(inner.path, err)
	}
	p, err := product.NewIdentifyAML(sub, txn, flat, v)
	if err != nil {
		return nil, internal(err)
	}
	return p, nil
}

func mismatch(path string, err error) error {
	return &DecodeError{Category: ErrorTierMismatch, Path: path, Underlying: err}
}

func internal(err error) error {
	return &DecodeError{Category: ErrorInternal, Underlying: err}
}

// scan carries per-call state: the tier being decoded and the unknown enum
// values seen so far. Notices are held back until the decode succeeds so a
// rejected document reports nothing but its error.
type scan struct {
	decoder *Decoder
	tier    shared.Tier
	notices []Notice
}

func (s *scan) dropped(path, expected, raw string) {
	s.decoder.logger.Debug("claims field dropped",
		"tier", s.tier,
		"path", path,
		"expected", expected,
		"value", raw,
	)
}

func (s *scan) unknownEnum(path, enum, value string) {
	s.notices = append(s.notices, Notice{Tier: s.tier, Path: path, Enum: enum, Value: value})
}

func (s *scan) report() {
	for _, n := range s.notices {
		s.decoder.logger.Warn("unknown claim enum value",
			"tier", n.Tier,
			"path", n.Path,
			"enum", n.Enum,
			"value", n.Value,
		)
		if s.decoder.onNotice != nil {
			s.decoder.onNotice(n)
		}
	}
}
