// Package eval runs composed plans.
//
// An evaluation threads one value through the steps of a plan in order.
// Suspending steps are awaited before their value is used; fallible steps
// are unwrapped, and the first failure ends the run with a Failed outcome
// carrying that failure's error unchanged. Steps after a failure are never
// invoked.
//
// Faults (a step returning an error, a value without the capability its
// modifiers require, a panicked future) are not outcomes: Evaluate returns
// them as a *FaultError.
package eval
