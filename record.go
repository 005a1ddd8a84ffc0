package boomerang

import (
	"fmt"
	"reflect"
	"sort"
)

// record is the stored form of one redirected object.
//
// Permitted is written as true by Relay.Redirect. A record without it was not
// produced through a permit step and is rejected on load.
type record struct {
	Errors    map[string][]string `json:"errors" yaml:"errors" msgpack:"errors" bson:"errors" cbor:"errors"`
	Params    map[string]any      `json:"params" yaml:"params" msgpack:"params" bson:"params" cbor:"params"`
	Permitted bool                `json:"permitted" yaml:"permitted" msgpack:"permitted" bson:"permitted" cbor:"permitted"`
}

// params returns the stored values tagged as they were written.
func (r record) params() Params {
	if !r.Permitted {
		return RawFrom(r.Params)
	}
	return newPermitted(r.Params, sortedKeys(r.Params))
}

// state maps object identifiers to their records.
type state map[string]record

// identifiers returns the stored identifiers, sorted.
func (s state) identifiers() []string {
	return sortedKeys(s)
}

// normalize rewrites decoded params into plain Go shapes.
// Codecs differ in how they decode nested values (map[any]any, bson.M,
// primitive.A); afterwards every nested map is map[string]any and every
// nested list is []any.
func (s state) normalize() {
	for id, rec := range s {
		if rec.Params == nil {
			rec.Params = map[string]any{}
		} else {
			rec.Params = normalizeMap(reflect.ValueOf(rec.Params))
		}
		s[id] = rec
	}
}

func normalizeValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return normalizeMap(rv)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}

func normalizeMap(rv reflect.Value) map[string]any {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		var key string
		if k, ok := iter.Key().Interface().(string); ok {
			key = k
		} else {
			key = fmt.Sprint(iter.Key().Interface())
		}
		out[key] = normalizeValue(iter.Value().Interface())
	}
	return out
}

// sortedKeys returns the keys of m, sorted.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
