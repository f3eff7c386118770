// Package async provides Future[T], the suspension primitive awaited by
// suspending chain steps.
//
// A Future is resolved exactly once, either with a value or with a captured
// panic. Await and Get block until the future is resolved or the caller's
// context is done; a done context never resolves the future itself, the work
// keeps running under the context it was started with.
//
// Highlights:
// - Go: run a function in a goroutine and return its Future
// - Resolved: an already resolved Future
// - New: a Future plus its one-shot resolver
// - Get/Await: wait for the value with a context
package async
