package boomerang

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is a submitted field-value mapping.
//
// It is either Raw or Permitted. The set is closed: no other type satisfies
// Params, so a type switch over it is exhaustive.
type Params interface {
	isParams()
}

// Raw holds unchecked params in submission order.
//
// Raw values are never assigned to an object. Call Permit to obtain a
// Permitted mapping first. Nested objects are stored as Raw.
type Raw struct {
	m *orderedmap.OrderedMap[string, any]
}

func (Raw) isParams() {}

// NewRaw returns an empty Raw mapping.
func NewRaw() Raw {
	return Raw{m: orderedmap.New[string, any]()}
}

// RawFrom wraps a plain map. Keys are ordered lexically since map order is
// not defined.
func RawFrom(values map[string]any) Raw {
	r := NewRaw()
	for _, k := range sortedKeys(values) {
		r.Set(k, values[k])
	}
	return r
}

// ParseJSON decodes a JSON object into Raw, keeping key order.
func ParseJSON(data []byte) (Raw, error) {
	om := orderedmap.New[string, any]()
	if err := json.Unmarshal(data, om); err != nil {
		return Raw{}, fmt.Errorf("parse params: %w", err)
	}
	return Raw{m: om}, nil
}

// ParseQuery decodes a URL-encoded query or form body into Raw, keeping the
// order fields were submitted in.
//
// Bracketed names nest: object[some_field]=x yields a Raw under "object".
// A trailing [] collects repeated values into a []string. Repeated plain
// names keep the last value.
func ParseQuery(query string) (Raw, error) {
	r := NewRaw()
	for query != "" {
		var pair string
		pair, query, _ = strings.Cut(query, "&")
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Raw{}, fmt.Errorf("parse params: %w", err)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return Raw{}, fmt.Errorf("parse params: %w", err)
		}
		path, list := splitParamKey(key)
		if len(path) == 0 {
			continue
		}
		r.setPath(path, list, val)
	}
	return r, nil
}

// splitParamKey turns "a[b][c][]" into [a b c] and list=true.
func splitParamKey(key string) ([]string, bool) {
	base, rest, found := strings.Cut(key, "[")
	if base == "" {
		return nil, false
	}
	path := []string{base}
	if !found {
		return path, false
	}
	rest = "[" + rest
	list := false
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		seg := rest[1:end]
		rest = rest[end+1:]
		if seg == "" {
			list = true
			break
		}
		path = append(path, seg)
	}
	return path, list
}

func (r Raw) setPath(path []string, list bool, val string) {
	cur := r
	for _, seg := range path[:len(path)-1] {
		next, ok := cur.Get(seg)
		nested, isRaw := next.(Raw)
		if !ok || !isRaw {
			nested = NewRaw()
			cur.Set(seg, nested)
		}
		cur = nested
	}
	last := path[len(path)-1]
	if !list {
		cur.Set(last, val)
		return
	}
	existing, _ := cur.Get(last)
	values, _ := existing.([]string)
	cur.Set(last, append(values, val))
}

// Set stores value under key and returns r for chaining.
// The zero Raw is read-only; build with NewRaw.
func (r Raw) Set(key string, value any) Raw {
	r.m.Set(key, value)
	return r
}

// Get returns the value stored under key.
func (r Raw) Get(key string) (any, bool) {
	if r.m == nil {
		return nil, false
	}
	return r.m.Get(key)
}

// Len returns the number of top-level keys.
func (r Raw) Len() int {
	if r.m == nil {
		return 0
	}
	return r.m.Len()
}

// Keys returns the top-level keys in submission order.
func (r Raw) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r.m == nil {
		return keys
	}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// ToMap converts r into plain maps, recursively.
func (r Raw) ToMap() map[string]any {
	out := make(map[string]any, r.Len())
	if r.m == nil {
		return out
	}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = plainValue(pair.Value)
	}
	return out
}

// Require returns the nested params under key.
// It fails with ParameterMissingError when the key is absent, empty, or not
// an object.
func (r Raw) Require(key string) (Raw, error) {
	v, ok := r.Get(key)
	if !ok {
		return Raw{}, &ParameterMissingError{Param: key}
	}
	var nested Raw
	switch t := v.(type) {
	case Raw:
		nested = t
	case map[string]any:
		nested = RawFrom(t)
	default:
		return Raw{}, &ParameterMissingError{Param: key}
	}
	if nested.Len() == 0 {
		return Raw{}, &ParameterMissingError{Param: key}
	}
	return nested, nil
}

// Permit returns the listed fields as Permitted params. Keys not listed are
// dropped. Listed keys that were not submitted are simply absent.
func (r Raw) Permit(fields ...string) Permitted {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := r.Get(f); ok {
			values[f] = plainValue(v)
		}
	}
	return newPermitted(values, fields)
}

// Permitted holds params filtered through an explicit allow-list.
//
// Only fields in the allow-list can be read out of it. The zero value
// permits nothing.
type Permitted struct {
	values map[string]any
	fields []string
}

func (Permitted) isParams() {}

func newPermitted(values map[string]any, fields []string) Permitted {
	allowed := make([]string, len(fields))
	copy(allowed, fields)
	kept := make(map[string]any, len(values))
	for _, f := range allowed {
		if v, ok := values[f]; ok {
			kept[f] = v
		}
	}
	return Permitted{values: kept, fields: allowed}
}

// Get returns the value of a permitted field.
func (p Permitted) Get(field string) (any, bool) {
	v, ok := p.values[field]
	return v, ok
}

// Fields returns the allow-list the params were permitted with.
func (p Permitted) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// Keys returns the permitted fields that carry a value, in allow-list order.
func (p Permitted) Keys() []string {
	keys := make([]string, 0, len(p.values))
	seen := make(map[string]bool, len(p.fields))
	for _, f := range p.fields {
		if _, ok := p.values[f]; ok && !seen[f] {
			seen[f] = true
			keys = append(keys, f)
		}
	}
	return keys
}

// Len returns the number of permitted fields that carry a value.
func (p Permitted) Len() int {
	return len(p.values)
}

// Values returns a copy of the permitted values.
func (p Permitted) Values() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Permit narrows p to the fields present in both allow-lists.
func (p Permitted) Permit(fields ...string) Permitted {
	return newPermitted(p.values, fields)
}

// plainValue unwraps nested Raw values into maps.
func plainValue(v any) any {
	if nested, ok := v.(Raw); ok {
		return nested.ToMap()
	}
	return v
}
