// Package chain is the entry point for building and running step chains.
//
// A chain is written as step tokens, classified, bound against plan.Bindings
// and evaluated with eval.Evaluator:
//
//	b := plan.NewBindings().
//		Func("double_it", step.Pure(func(n int) int { return n * 2 })).
//		Func("validate", step.Try(validate))
//	c, err := chain.Build(b, []string{"double_it", "validate?", "|n: int| n + 1"})
//	out, err := c.Run(ctx, 5)
//
// Key operations:
// - Build/Compose: classify and bind tokens or descriptors
// - Parse: build from `initial => step => ...` text
// - Run: evaluate one initial value
// - RunMany: evaluate many initial values with a worker pool
// - WithMode: restrict a chain to plain, `?` only or `.await?` only steps
package chain
