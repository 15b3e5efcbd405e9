// Package remote implements the cloud document store adapter. The store is a
// per-user collection of receipt documents behind a JSON HTTP API; every call
// is authenticated with the session token and the server filters reads to the
// caller's own documents.
package remote

import (
	"context"

	"github.com/andrejsk/kvits/internal/client/models"
)

// Store is the remote persistence contract. Errors are mapped onto the
// sentinels in internal/common: ErrorNotFound, ErrorConnectivity,
// ErrorValidation, ErrorUnknown. Callers must normalize receipts
// (models.Receipt.Normalized) before Put: the remote write validation
// rejects whole documents containing literal missing values for declared
// optional fields.
type Store interface {
	// GetAll returns every receipt belonging to the authenticated caller.
	GetAll(ctx context.Context) ([]models.Receipt, error)

	// Get returns one receipt by identifier.
	Get(ctx context.Context, id string) (*models.Receipt, error)

	// Put creates or fully overwrites a receipt document.
	Put(ctx context.Context, r models.Receipt) error

	// Delete removes a receipt document. Absent documents fail with
	// common.ErrorNotFound; callers usually treat that as already done.
	Delete(ctx context.Context, id string) error

	// Probe reports whether the remote looks reachable, implemented as a
	// minimal low-risk read. Any failure reads as offline; this is a
	// heuristic, not a guarantee.
	Probe(ctx context.Context) bool
}
