// Package cartid owns the single piece of state the storefront itself
// keeps: the opaque identifier of the shopper's remote cart. Where the
// identifier lives (cookie, memory) is decoupled from who reads it, so
// the same call sites work for every surface of one browser session.
package cartid

// Store persists at most one active cart identifier. No operation may
// fail: unavailable storage degrades to "no persisted cart", and callers
// fall back to creating a fresh remote cart on demand.
type Store interface {
	// Get returns the persisted identifier, if any.
	Get() (string, bool)
	// Set persists id, replacing any previous identifier.
	Set(id string)
	// Clear drops the persisted identifier.
	Clear()
}
