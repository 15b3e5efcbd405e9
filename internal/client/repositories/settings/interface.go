// Package settings stores small named preferences in the local database:
// the auto-sync flag and the cached session token between runs.
package settings

import "context"

// Well-known setting names.
const (
	// KeyAutoSync holds "1"/"0": run a reconciliation pass automatically
	// after sign-in.
	KeyAutoSync = "auto_sync"
	// KeySessionToken holds the cached remote session token.
	KeySessionToken = "session_token"
)

type Repository interface {
	// Get returns the stored value, or "" when the name is unset.
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name string, value string) error
	Delete(ctx context.Context, name string) error
}
