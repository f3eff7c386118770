package step

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindFree Kind = iota + 1
	KindMethod
	KindScoped
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindMethod:
		return "method"
	case KindScoped:
		return "scoped"
	case KindLambda:
		return "lambda"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is the call form of a step. The set of shapes is closed.
type Shape interface {
	Kind() Kind
	// String renders the shape as it is written in a chain, without suffix.
	String() string
	isShape()
}

// FreeCall calls a named function: f(current).
type FreeCall struct {
	Callee string
}

// MethodCall calls a method of a named receiver: r.m(current).
type MethodCall struct {
	Receiver string
	Callee   string
}

// ScopedCall calls a function scoped to a type: T::f(current).
type ScopedCall struct {
	Scope  string
	Callee string
}

// InlineLambda is an anonymous function applied to the current value.
// ParamType and ReturnType are empty when not declared.
type InlineLambda struct {
	Param      string
	ParamType  string
	ReturnType string
	Body       string
}

func (FreeCall) Kind() Kind     { return KindFree }
func (MethodCall) Kind() Kind   { return KindMethod }
func (ScopedCall) Kind() Kind   { return KindScoped }
func (InlineLambda) Kind() Kind { return KindLambda }

func (FreeCall) isShape()     {}
func (MethodCall) isShape()   {}
func (ScopedCall) isShape()   {}
func (InlineLambda) isShape() {}

func (s FreeCall) String() string   { return s.Callee }
func (s MethodCall) String() string { return s.Receiver + "." + s.Callee }
func (s ScopedCall) String() string { return s.Scope + "::" + s.Callee }

func (s InlineLambda) String() string {
	var b strings.Builder
	b.WriteByte('|')
	b.WriteString(s.Param)
	if s.ParamType != "" {
		b.WriteString(": ")
		b.WriteString(s.ParamType)
	}
	b.WriteString("| ")
	if s.ReturnType == "" {
		b.WriteString(s.Body)
		return b.String()
	}
	b.WriteString("-> ")
	b.WriteString(s.ReturnType)
	b.WriteString(" { ")
	b.WriteString(s.Body)
	b.WriteString(" }")
	return b.String()
}

// Descriptor is one classified chain element.
type Descriptor struct {
	shape      Shape
	fallible   bool
	suspending bool
	token      string
}

// New builds a descriptor. It panics on a nil shape.
func New(shape Shape, fallible, suspending bool) Descriptor {
	if shape == nil {
		panic("step: nil shape")
	}
	return Descriptor{shape: shape, fallible: fallible, suspending: suspending}
}

// WithToken returns a copy of d remembering the raw token it came from.
func (d Descriptor) WithToken(token string) Descriptor {
	d.token = token
	return d
}

func (d Descriptor) Shape() Shape     { return d.shape }
func (d Descriptor) Kind() Kind       { return d.shape.Kind() }
func (d Descriptor) Fallible() bool   { return d.fallible }
func (d Descriptor) Suspending() bool { return d.suspending }

// Token returns the raw token, or the canonical form when the descriptor
// was not classified from text.
func (d Descriptor) Token() string {
	if d.token != "" {
		return d.token
	}
	return d.String()
}

// Suffix renders the modifiers: "", "?", ".await" or ".await?".
func (d Descriptor) Suffix() string {
	switch {
	case d.suspending && d.fallible:
		return ".await?"
	case d.suspending:
		return ".await"
	case d.fallible:
		return "?"
	default:
		return ""
	}
}

func (d Descriptor) String() string {
	if d.shape == nil {
		return "<invalid>"
	}
	return d.shape.String() + d.Suffix()
}

// Call renders the step applied to arg, e.g. `obj.m(arg).await?`.
func (d Descriptor) Call(arg string) string {
	var call string
	switch s := d.shape.(type) {
	case InlineLambda:
		call = "(" + s.String() + ")(" + arg + ")"
	default:
		call = s.String() + "(" + arg + ")"
	}
	return call + d.Suffix()
}
