package plan

import (
	"context"
	"slices"
	"strings"

	"github.com/ib-77/ropipe/pkg/rop"
	"github.com/ib-77/ropipe/pkg/rop/async"
	"github.com/ib-77/ropipe/pkg/rop/lambda"
	"github.com/ib-77/ropipe/pkg/rop/step"
	"github.com/ib-77/ropipe/pkg/rop/syntax"
)

// Node is one bound step of a plan.
type Node struct {
	Index      int
	Descriptor step.Descriptor
	Call       step.Func
}

// Plan is an immutable composed chain.
type Plan struct {
	nodes []Node
}

// Compose binds descs in order. It evaluates nothing; the first descriptor
// that cannot be bound aborts the build.
func Compose(descs []step.Descriptor, b *Bindings) (*Plan, error) {
	nodes := make([]Node, 0, len(descs))

	for i, d := range descs {
		call, err := bindStep(i, d, b)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{Index: i, Descriptor: d, Call: call})
	}

	return &Plan{nodes: nodes}, nil
}

func bindStep(i int, d step.Descriptor, b *Bindings) (step.Func, error) {
	if l, ok := d.Shape().(step.InlineLambda); ok {
		fn, err := lambda.Compile(l)
		if err != nil {
			tok := d.Token()
			return nil, syntax.Errorf(i, tok, max(strings.Index(tok, l.Body), 0), "%v", err)
		}
		return lift(fn, d), nil
	}

	if b != nil {
		if fn, ok := b.Lookup(d.Shape()); ok {
			return fn, nil
		}
	}
	return nil, &BindError{Step: i, Token: d.Token(), Name: d.Shape().String()}
}

// lift adapts a lambda to the modifiers of its descriptor. Lambda bodies
// yield plain values, so a fallible lambda wraps a non-fallible result in a
// success and a suspending lambda hands back a resolved future.
func lift(fn step.Func, d step.Descriptor) step.Func {
	if !d.Fallible() && !d.Suspending() {
		return fn
	}
	return func(ctx context.Context, in any) (any, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		if d.Fallible() && rop.Detect(out) != rop.FallibleValue {
			out = rop.Success(out)
		}
		if d.Suspending() {
			out = async.Resolved(out)
		}
		return out, nil
	}
}

// Len returns the number of steps; zero is the identity plan.
func (p *Plan) Len() int {
	return len(p.nodes)
}

// Nodes returns a copy of the bound steps in evaluation order.
func (p *Plan) Nodes() []Node {
	return slices.Clone(p.nodes)
}

// Node returns the i-th step.
func (p *Plan) Node(i int) Node {
	return p.nodes[i]
}

// Descriptors returns the descriptors in evaluation order.
func (p *Plan) Descriptors() []step.Descriptor {
	descs := make([]step.Descriptor, len(p.nodes))
	for i, n := range p.nodes {
		descs[i] = n.Descriptor
	}
	return descs
}

// Expr renders the nested call expression the plan stands for, with
// initial as the innermost argument.
func (p *Plan) Expr(initial string) string {
	current := initial
	for _, n := range p.nodes {
		current = n.Descriptor.Call(current)
	}
	return current
}

func (p *Plan) String() string {
	return p.Expr("_")
}
