// Package pending contains the durable queue of receipt identifiers whose
// deletion succeeded locally but has not yet been confirmed remotely. The
// backing table lives in the local database, so entries survive restarts and
// are readable before the user re-authenticates.
package pending

import "context"

// Repository is the persistence contract for the pending-deletion queue.
// Entries carry no payload beyond the identifier and no ordering guarantee.
type Repository interface {
	// Enqueue records an identifier awaiting remote deletion. Enqueueing an
	// identifier already present is a no-op.
	Enqueue(ctx context.Context, id string) error

	// Remove drops an identifier from the queue. Removing an absent
	// identifier is a no-op.
	Remove(ctx context.Context, id string) error

	// List returns every queued identifier.
	List(ctx context.Context) ([]string, error)
}
