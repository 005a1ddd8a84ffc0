package boomerang

// Override interfaces allow types to bypass reflection-based assignment.
// When *T implements one of these interfaces, Assign calls the interface
// methods instead of scanning prg struct tags.
//
// This is useful for setters with side effects or for types whose fields are
// not plain struct fields.

// Assignable bypasses reflection for field assignment.
//
// Access rules still apply: Assign asks FieldAccess first and only calls
// AssignField for public fields.
type Assignable interface {
	// FieldAccess reports the access level of a param name.
	// The bool is false when the type has no such field.
	FieldAccess(name string) (Access, bool)

	// AssignField sets the field for a param name.
	AssignField(name string, value any) error
}
