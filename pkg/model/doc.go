// Package model exposes the stable, public form model types. The concrete
// definitions live in internal/model; this package re-exports them so callers
// have a single import path while the internals stay free to evolve.
package model
