package boomerang

// AssertPermitted returns p as Permitted, or fails when p did not pass an
// explicit permit step.
//
// Raw params are a developer error: they fail with an UnsafeParametersError
// and are never accepted silently.
func AssertPermitted(p Params) (Permitted, error) {
	switch t := p.(type) {
	case Permitted:
		return t, nil
	default:
		return Permitted{}, &UnsafeParametersError{}
	}
}

// requirePermitted is AssertPermitted for submitted params on the write path.
// Raw keys are reported as unsafe so the offending names show up in the error.
func requirePermitted(p Params) (Permitted, error) {
	switch t := p.(type) {
	case Permitted:
		return t, nil
	case Raw:
		keys := t.Keys()
		if len(keys) == 0 {
			return Permitted{}, &UnsafeParametersError{}
		}
		return Permitted{}, &UnsafeParametersError{Fields: keys}
	default:
		return Permitted{}, &UnsafeParametersError{}
	}
}
