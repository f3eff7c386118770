// Package core contains the worker plumbing used to evaluate one plan over
// many initial values: indexed input channels, worker options carried by the
// context, and the locomotive loop each worker runs. It does not know about
// chains; packages like chain provide the engine the locomotive drives.
package core
