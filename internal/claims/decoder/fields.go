package decoder

import (
	"strconv"

	"github.com/tidwall/gjson"

	"bankid/internal/claims/domain/shared"
	platformstrings "bankid/pkg/platform/strings"
)

// object is a JSON object positioned at a dotted path inside the document.
// An absent object has a zero gjson.Result, so every lookup on it is null.
type object struct {
	res  gjson.Result
	path string
	sc   *scan
}

func (o object) get(key string) (gjson.Result, string) {
	return o.res.Get(key), joinPath(o.path, key)
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func indexPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// required reads a non-empty string that has no absent representation.
func (o object) required(key string) (string, error) {
	r, path := o.get(key)
	if r.Type != gjson.String || r.Str == "" {
		return "", fieldError(path, "non-empty string")
	}
	return r.Str, nil
}

// child returns the nested object at key. Absent and null yield an empty
// object with present set to false; any other shape is a field error.
func (o object) child(key string) (object, bool, error) {
	r, path := o.get(key)
	switch {
	case r.Type == gjson.Null:
		return object{path: path, sc: o.sc}, false, nil
	case r.IsObject():
		return object{res: r, path: path, sc: o.sc}, true, nil
	}
	return object{}, false, fieldError(path, "object")
}

// array returns the elements at key; nil when absent or null.
func (o object) array(key string) ([]gjson.Result, string, error) {
	r, path := o.get(key)
	if r.Type == gjson.Null {
		return nil, path, nil
	}
	if !r.IsArray() {
		return nil, path, fieldError(path, "array")
	}
	items := r.Array()
	if items == nil {
		items = []gjson.Result{}
	}
	return items, path, nil
}

func (o object) str(key string) *string {
	r, path := o.get(key)
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		v := r.Str
		return &v
	}
	o.sc.dropped(path, "string", r.Raw)
	return nil
}

func (o object) boolean(key string) *bool {
	r, path := o.get(key)
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		v := r.Bool()
		return &v
	}
	o.sc.dropped(path, "boolean", r.Raw)
	return nil
}

func (o object) integer(key string) *int {
	v := o.integer64(key)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// integer64 accepts only integral JSON numbers; fractions and exponents are dropped.
func (o object) integer64(key string) *int64 {
	r, path := o.get(key)
	if r.Type == gjson.Null {
		return nil
	}
	if r.Type == gjson.Number {
		if v, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return &v
		}
	}
	o.sc.dropped(path, "integer", r.Raw)
	return nil
}

func (o object) birthdate(key string) *shared.Birthdate {
	s := o.str(key)
	if s == nil {
		return nil
	}
	b, err := shared.ParseBirthdate(*s)
	if err != nil {
		o.sc.dropped(joinPath(o.path, key), "birthdate", *s)
		return nil
	}
	return &b
}

func (o object) date(key string) *shared.Date {
	s := o.str(key)
	if s == nil {
		return nil
	}
	d, err := shared.ParseDate(*s)
	if err != nil {
		o.sc.dropped(joinPath(o.path, key), "date", *s)
		return nil
	}
	return &d
}

func (o object) country(key string) *shared.CountryCode {
	s := o.str(key)
	if s == nil {
		return nil
	}
	c, err := shared.ParseCountryCode(*s)
	if err != nil {
		o.sc.dropped(joinPath(o.path, key), "country code", *s)
		return nil
	}
	return &c
}

// strings reads an array of strings. Non-string elements are field errors.
func (o object) strings(key string) ([]string, error) {
	items, path, err := o.array(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, fieldError(indexPath(path, i), "string")
		}
		out = append(out, item.Str)
	}
	return out, nil
}

// countries reads a set of country codes: deduplicated, upper-cased, with
// invalid codes dropped.
func (o object) countries(key string) ([]shared.CountryCode, error) {
	values, err := o.strings(key)
	if err != nil || values == nil {
		return nil, err
	}
	path := joinPath(o.path, key)
	unique := platformstrings.DedupeAndTrimUpper(values)
	out := make([]shared.CountryCode, 0, len(unique))
	for _, v := range unique {
		c, err := shared.ParseCountryCode(v)
		if err != nil {
			o.sc.dropped(path, "country code", v)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// objectsOf maps every element of an array of objects through fn. The result
// is nil only when the array is absent.
func objectsOf[T any](o object, key string, fn func(object) T) ([]T, error) {
	items, path, err := o.array(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fieldError(indexPath(path, i), "object")
		}
		out = append(out, fn(object{res: item, path: indexPath(path, i), sc: o.sc}))
	}
	return out, nil
}

// enumField parses an enum with the unknown fallback. Unrecognized text is
// reported as a notice and never fails the decode.
func enumField[E ~string](o object, key, enum string, parse func(string) (E, bool)) *E {
	r, path := o.get(key)
	if r.Type == gjson.Null {
		return nil
	}
	if r.Type != gjson.String {
		o.sc.dropped(path, enum, r.Raw)
		return nil
	}
	v, ok := parse(r.Str)
	if !ok {
		o.sc.unknownEnum(path, enum, r.Str)
	}
	return &v
}
