package boomerang

import "reflect"

// Target receives a redirected object on load.
//
// Build targets with Into.
type Target interface {
	permitted() []string
	restore(params Permitted, errs map[string][]string) error
	typeName() string
}

// Targets maps object identifiers to the targets that receive them.
type Targets map[string]Target

// into binds a rebuilt T into dst.
type into[T any, PT interface {
	*T
	Model
}] struct {
	dst    PT
	fields []string
}

// Into returns a Target that rebuilds a fresh T from the stored record and
// copies it into dst. Only the listed fields are assigned.
//
// When nothing was stored for the identifier, dst is left untouched.
func Into[T any, PT interface {
	*T
	Model
}](dst PT, permitted ...string) Target {
	fields := make([]string, len(permitted))
	copy(fields, permitted)
	return &into[T, PT]{dst: dst, fields: fields}
}

func (t *into[T, PT]) permitted() []string {
	return t.fields
}

func (t *into[T, PT]) typeName() string {
	return reflect.TypeFor[T]().String()
}

func (t *into[T, PT]) restore(params Permitted, errs map[string][]string) error {
	if t.dst == nil {
		return newConfigError(ErrUnsupportedType, "", "nil")
	}

	var fresh T
	if err := Assign(&fresh, params, t.fields...); err != nil {
		return err
	}
	collected := PT(&fresh).Errors()
	if collected == nil {
		return newConfigError(ErrUnsupportedType, "Errors", t.typeName())
	}
	collected.Set(errs)

	*t.dst = fresh
	return nil
}
