// Package step defines the step descriptor of a chain and the callables
// steps are bound to.
//
// A Descriptor pairs one Shape (FreeCall, MethodCall, ScopedCall or
// InlineLambda) with two independent modifiers: Fallible (the `?` suffix)
// and Suspending (the `.await` suffix). Descriptors are values and never
// change after construction.
//
// Func is the uniform callable every bound step is reduced to. The adapters
// in this package lift ordinary Go functions into Funcs:
// - Pure/Map: plain transformations
// - Try: (Out, error) functions, producing a fallible rop.Result
// - Switch: functions that already return rop.Result
// - Validate/Tee: validation and side effects
// - Async/AsyncTry: work that runs in a goroutine and must be awaited
package step
