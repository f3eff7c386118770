package plan

import (
	"maps"
	"slices"
	"sync"

	"github.com/ib-77/ropipe/pkg/rop/step"
)

// Bindings maps step names to callables. It is safe for concurrent use.
type Bindings struct {
	mu        sync.RWMutex
	funcs     map[string]step.Func
	receivers map[string]map[string]step.Func
	scopes    map[string]map[string]step.Func
}

func NewBindings() *Bindings {
	return &Bindings{
		funcs:     make(map[string]step.Func),
		receivers: make(map[string]map[string]step.Func),
		scopes:    make(map[string]map[string]step.Func),
	}
}

// Func binds a free function. An existing binding is overwritten.
func (b *Bindings) Func(name string, fn step.Func) *Bindings {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.funcs[name] = fn
	return b
}

// Method binds one method of a named receiver.
func (b *Bindings) Method(receiver, name string, fn step.Func) *Bindings {
	b.mu.Lock()
	defer b.mu.Unlock()
	put(b.receivers, receiver, name, fn)
	return b
}

// Receiver binds several methods of a named receiver at once. Method values
// such as acct.Deposit keep the receiver bound.
func (b *Bindings) Receiver(receiver string, methods map[string]step.Func) *Bindings {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, fn := range methods {
		put(b.receivers, receiver, name, fn)
	}
	return b
}

// Scoped binds a function under a type scope.
func (b *Bindings) Scoped(scope, name string, fn step.Func) *Bindings {
	b.mu.Lock()
	defer b.mu.Unlock()
	put(b.scopes, scope, name, fn)
	return b
}

// Merge copies every binding of other into b, overwriting duplicates.
func (b *Bindings) Merge(other *Bindings) *Bindings {
	if other == nil || other == b {
		return b
	}

	other.mu.RLock()
	defer other.mu.RUnlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	maps.Copy(b.funcs, other.funcs)
	for r, methods := range other.receivers {
		for name, fn := range methods {
			put(b.receivers, r, name, fn)
		}
	}
	for s, funcs := range other.scopes {
		for name, fn := range funcs {
			put(b.scopes, s, name, fn)
		}
	}
	return b
}

// Lookup resolves a call shape. Lambdas are never bound by name.
func (b *Bindings) Lookup(shape step.Shape) (step.Func, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var fn step.Func
	switch s := shape.(type) {
	case step.FreeCall:
		fn = b.funcs[s.Callee]
	case step.MethodCall:
		fn = b.receivers[s.Receiver][s.Callee]
	case step.ScopedCall:
		fn = b.scopes[s.Scope][s.Callee]
	}
	return fn, fn != nil
}

// Names lists every bound name in its written form, sorted.
func (b *Bindings) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := slices.Collect(maps.Keys(b.funcs))
	for r, methods := range b.receivers {
		for name := range methods {
			names = append(names, step.MethodCall{Receiver: r, Callee: name}.String())
		}
	}
	for s, funcs := range b.scopes {
		for name := range funcs {
			names = append(names, step.ScopedCall{Scope: s, Callee: name}.String())
		}
	}
	slices.Sort(names)
	return names
}

func put(m map[string]map[string]step.Func, outer, inner string, fn step.Func) {
	if m[outer] == nil {
		m[outer] = make(map[string]step.Func)
	}
	m[outer][inner] = fn
}
