// Package syntax classifies raw step tokens into step descriptors.
//
// The accepted forms are:
//
//	f            free call
//	obj.m        method call on a named receiver
//	T::f         call scoped to a type
//	|x| expr     inline lambda, optionally |x: T| -> R { expr }
//
// Calls take an optional suffix: `?` (fallible), `.await` (suspending) or
// `.await?` (both). Classification looks at the token text only.
//
// Split segments a whole chain written as `initial => step => step`;
// SplitSteps reads a chain that has no initial value.
package syntax
