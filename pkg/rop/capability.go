package rop

// Capability classifies a runtime value for the evaluator.
type Capability uint8

const (
	Plain Capability = iota
	FallibleValue
)

func (c Capability) String() string {
	if c == FallibleValue {
		return "fallible"
	}
	return "plain"
}

// Detect reports whether v exposes the Fallible view. Only interface
// conformance is checked; type names play no part.
func Detect(v any) Capability {
	if _, ok := v.(Fallible); ok {
		return FallibleValue
	}
	return Plain
}

// IsAwaitable reports whether v can be awaited.
func IsAwaitable(v any) bool {
	_, ok := v.(Awaitable)
	return ok
}

// Unwrap returns the success payload or the error of a fallible value.
// ok is false when v is not fallible.
func Unwrap(v any) (value any, err error, ok bool) {
	f, ok := v.(Fallible)
	if !ok {
		return v, nil, false
	}
	value, err = f.Unwrap()
	return value, err, true
}
