package boomerang

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Assign applies permitted params onto obj.
//
// Only names listed in permitted and carrying a value in params are assigned,
// in the order listed. A field whose access is not public fails with an
// AccessViolationError and a name with no tagged field fails with a
// FieldError. The first failure stops the walk; fields assigned before it
// keep their new values.
func Assign[T any](obj *T, params Permitted, permitted ...string) error {
	if obj == nil {
		return newConfigError(ErrUnsupportedType, "", "nil")
	}

	// Check for override interface
	if a, ok := any(obj).(Assignable); ok {
		return assignOverride(a, reflect.TypeFor[T]().String(), params, permitted)
	}

	plan, err := plansFor[T]()
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(obj).Elem()
	for _, name := range permitted {
		value, ok := params.Get(name)
		if !ok {
			continue
		}

		fp, ok := plan.field(name)
		if !ok {
			return &FieldError{Err: ErrUnknownField, Field: name, Type: plan.typeName}
		}
		if !fp.access.Assignable() {
			return &AccessViolationError{Field: name, Access: fp.access, Type: plan.typeName}
		}

		if err := assignField(rv, fp, value); err != nil {
			return assignFailure(name, err)
		}
	}

	return nil
}

// Build constructs a new T from submitted params.
//
// Raw params fail with an UnsafeParametersError naming every submitted key.
// Permitted params are assigned through Assign.
func Build[T any](params Params) (*T, error) {
	permitted, err := requirePermitted(params)
	if err != nil {
		return nil, err
	}

	obj := new(T)
	if err := Assign(obj, permitted, permitted.Keys()...); err != nil {
		return nil, err
	}
	return obj, nil
}

func assignOverride(a Assignable, typeName string, params Permitted, permitted []string) error {
	for _, name := range permitted {
		value, ok := params.Get(name)
		if !ok {
			continue
		}

		access, ok := a.FieldAccess(name)
		if !ok {
			return &FieldError{Err: ErrUnknownField, Field: name, Type: typeName}
		}
		if !access.Assignable() {
			return &AccessViolationError{Field: name, Access: access, Type: typeName}
		}

		if err := a.AssignField(name, value); err != nil {
			return &AssignError{Err: ErrAssign, Field: name, Cause: err}
		}
	}
	return nil
}

// assignFailure passes access and field errors from nested structs through
// unchanged and wraps anything else as an AssignError for name.
func assignFailure(name string, err error) error {
	var av *AccessViolationError
	var fe *FieldError
	if errors.As(err, &av) || errors.As(err, &fe) {
		return err
	}
	return &AssignError{Err: ErrAssign, Field: name, Cause: err}
}

// assignField stores value into the field at fp.index, allocating nil
// embedded pointers along the way.
func assignField(rv reflect.Value, fp fieldPlan, value any) error {
	field := rv
	for i, x := range fp.index {
		if i > 0 && field.Kind() == reflect.Ptr {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			field = field.Elem()
		}
		field = field.Field(x)
	}
	return assignValue(field, value)
}

// assignValue converts value into field.
//
// A map assigned to a struct is applied field by field through the struct's
// own plan, so access levels hold at every depth. Slices and maps of structs
// are walked the same way. Everything else is decoded directly.
func assignValue(field reflect.Value, value any) error {
	if value == nil {
		return decodeValue(field, value)
	}

	ft := field.Type()
	switch ft.Kind() {
	case reflect.Ptr:
		if !holdsStruct(ft.Elem()) {
			return decodeValue(field, value)
		}
		elem := reflect.New(ft.Elem())
		if !field.IsNil() {
			elem.Elem().Set(field.Elem())
		}
		if err := assignValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil

	case reflect.Struct:
		m, ok := stringMap(value)
		if !ok {
			return decodeValue(field, value)
		}
		return assignStruct(field, m)

	case reflect.Slice, reflect.Array:
		if !holdsStruct(ft.Elem()) {
			return decodeValue(field, value)
		}
		items, ok := listValue(value)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", value, ft)
		}
		out := reflect.New(ft).Elem()
		if ft.Kind() == reflect.Slice {
			out = reflect.MakeSlice(ft, len(items), len(items))
		} else if len(items) > ft.Len() {
			return fmt.Errorf("%d values overflow %s", len(items), ft)
		}
		for i, item := range items {
			if err := assignValue(out.Index(i), item); err != nil {
				return err
			}
		}
		field.Set(out)
		return nil

	case reflect.Map:
		if !holdsStruct(ft.Elem()) || ft.Key().Kind() != reflect.String {
			return decodeValue(field, value)
		}
		m, ok := stringMap(value)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", value, ft)
		}
		out := reflect.MakeMapWithSize(ft, len(m))
		for _, k := range sortedKeys(m) {
			elem := reflect.New(ft.Elem()).Elem()
			if err := assignValue(elem, m[k]); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(ft.Key()), elem)
		}
		field.Set(out)
		return nil

	default:
		return decodeValue(field, value)
	}
}

// assignStruct applies m onto the struct rv through its plan.
// Keys without a tagged field and fields that are not public are refused.
func assignStruct(rv reflect.Value, m map[string]any) error {
	plan, _, err := plansForType(rv.Type())
	if err != nil {
		return err
	}

	for _, name := range sortedKeys(m) {
		fp, ok := plan.field(name)
		if !ok {
			return &FieldError{Err: ErrUnknownField, Field: name, Type: plan.typeName}
		}
		if !fp.access.Assignable() {
			return &AccessViolationError{Field: name, Access: fp.access, Type: plan.typeName}
		}
		if err := assignField(rv, fp, m[name]); err != nil {
			return assignFailure(name, err)
		}
	}
	return nil
}

// holdsStruct reports whether t, after pointers, is a struct.
func holdsStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// stringMap returns value as a string-keyed map.
func stringMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Raw:
		return v.ToMap(), true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	return normalizeMap(rv), true
}

// listValue returns value as a list of elements.
func listValue(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// decodeValue converts value into the field's type and stores it.
// Conversion is weakly typed, so "42" fills an int and "true" a bool.
func decodeValue(field reflect.Value, value any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           field.Addr().Interface(),
		WeaklyTypedInput: true,
		TagName:          "prg",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(value)
}
