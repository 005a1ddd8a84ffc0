// Package boomerang carries form state across a Post-Redirect-Get round trip.
//
// When a write request fails validation the handler redirects instead of
// re-rendering. The next page load still needs the submitted values and the
// validation errors. A Relay stores both in a transient, session-scoped store
// before the redirect and rebuilds an equivalent object on the next request.
//
// # Lifecycle
//
//   - write request: validation fails, Relay.Redirect stores the record, handler redirects
//   - next request: Relay.Load rebuilds the object, binds it, and consumes the record
//
// A stored record is read at most once. Load removes the state on every exit
// path, including errors, so a later unrelated request never sees it.
//
// # Strong Parameters
//
// Submitted values are either Raw (unchecked) or Permitted (filtered through an
// explicit allow-list). Only Permitted values are ever assigned to an object:
//
//	body, _ := io.ReadAll(r.Body)
//	raw, _ := boomerang.ParseQuery(string(body))
//	obj, _ := raw.Require("object")
//	params := obj.Permit("some_field")
//
// Passing a Raw map where a Permitted one is required fails with
// ErrUnsafeParameters.
//
// # Tag Syntax
//
// Assignable fields are declared with the prg struct tag:
//
//	prg:"{param}[,{access}][,filter]"
//
// Access is one of public (default), protected or private. Only public fields
// can be assigned from params. Fields marked filter are never written to the
// store, which keeps values such as passwords out of the session:
//
//	type Signup struct {
//	    boomerang.Validations
//	    Email    string `prg:"email"`
//	    Password string `prg:"password,filter"`
//	    Role     string `prg:"role,protected"`
//	}
//
// # Basic Usage
//
//	relay := boomerang.New(json.New())
//
//	// POST handler
//	if signup.Email == "" {
//	    signup.Errors().Add("email", "not present")
//	    _ = relay.Redirect(ctx, sess, "@signup", &signup, params)
//	    http.Redirect(w, r, "/signup", http.StatusSeeOther)
//	}
//
//	// GET handler
//	var signup Signup
//	err := relay.Load(ctx, sess, boomerang.Targets{
//	    "@signup": boomerang.Into(&signup, "email", "password"),
//	})
//
// # Override Interfaces
//
// Types can bypass reflection by implementing Assignable. Access rules still
// apply to overridden types.
//
// # Codec Providers
//
// The stored state is encoded with a Codec. Implementations live in
// sub-packages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//   - cbor - CBOR encoding (application/cbor)
package boomerang

// Model is implemented by types that carry a validation error collection.
//
// Embed Validations to satisfy it:
//
//	type Account struct {
//	    boomerang.Validations
//	    Name string `prg:"name"`
//	}
type Model interface {
	Errors() *Errors
}

// Validations provides the error collection for a Model.
type Validations struct {
	errs Errors
}

// Errors returns the error collection.
func (v *Validations) Errors() *Errors {
	return &v.errs
}
