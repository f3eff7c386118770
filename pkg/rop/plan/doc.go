// Package plan composes classified steps into an immutable Plan.
//
// Names are resolved against Bindings when the plan is built, so an
// evaluation never looks a callee up: free calls bind to functions,
// method calls to a named receiver's methods, scoped calls to functions
// registered under a type scope, and inline lambdas are compiled.
//
// A Plan conceptually denotes stepN(...step2(step1(initial))...); Expr
// renders that nested form.
package plan
