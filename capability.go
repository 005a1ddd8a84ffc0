package boomerang

// Access represents the assignability of a field.
// Use these constants in struct tags: `prg:"role,protected"`
type Access string

const (
	// AccessPublic fields may be assigned from permitted params.
	AccessPublic Access = "public"

	// AccessProtected fields are readable but refuse assignment from params.
	AccessProtected Access = "protected"

	// AccessPrivate fields refuse assignment from params.
	AccessPrivate Access = "private"
)

// validAccess contains all valid access levels for tag validation.
var validAccess = map[Access]bool{
	AccessPublic:    true,
	AccessProtected: true,
	AccessPrivate:   true,
}

// IsValidAccess returns true if the level is a known access level.
func IsValidAccess(a Access) bool {
	return validAccess[a]
}

// Assignable reports whether a field with this access may be assigned from params.
func (a Access) Assignable() bool {
	return a == AccessPublic
}
