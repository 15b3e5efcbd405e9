package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/client/repositories/pending"
	"github.com/andrejsk/kvits/internal/client/repositories/receipts"
	"github.com/andrejsk/kvits/internal/client/remote"
	"github.com/andrejsk/kvits/internal/client/session"
	"github.com/andrejsk/kvits/internal/common"
	"github.com/andrejsk/kvits/internal/imagex"
	"github.com/andrejsk/kvits/internal/logging"
)

// Outcome summarizes one reconciliation pass: records created remotely,
// records overwritten remotely, and records left alone because the remote
// copy was strictly newer. It is reported to the caller and discarded.
type Outcome struct {
	Added     int
	Updated   int
	Conflicts int
}

// SyncState tracks where a pass currently is. The UI uses it to disable the
// sync trigger while a pass is in flight.
type SyncState string

const (
	StateIdle           SyncState = "idle"
	StateProbing        SyncState = "probing"
	StateFetchingRemote SyncState = "fetching_remote"
	StateReconciling    SyncState = "reconciling"
	StateComplete       SyncState = "complete"
	StateFailed         SyncState = "failed"
)

var (
	// ErrOffline reports that the connectivity probe failed and the pass
	// was skipped with zero counts. Automatic callers swallow it;
	// explicit callers show it as information, not as an error.
	ErrOffline = errors.New("remote unreachable, sync skipped")

	// ErrSyncInFlight reports that another pass holds the engine.
	ErrSyncInFlight = errors.New("sync already in progress")
)

// SyncService is the reconciliation engine between the local and remote
// record sets, plus the explicit directional overrides and the
// pending-deletion replay.
type SyncService interface {
	// Reconcile runs one bidirectional reconciliation pass for the given
	// session. See Outcome for the counts it reports.
	Reconcile(ctx context.Context, sess session.Session) (Outcome, error)

	// ForcePush writes every local record to the remote unconditionally,
	// ignoring timestamps. Destructive for remote edits; callers must
	// warn the user first.
	ForcePush(ctx context.Context, sess session.Session) (int, error)

	// ForcePull overwrites local records with their remote counterparts
	// unconditionally, creating local records that do not exist yet.
	// Destructive for local edits; callers must warn the user first.
	ForcePull(ctx context.Context, sess session.Session) (int, error)

	// DrainPendingDeletions replays queued remote deletions once,
	// returning how many succeeded and how many remain queued.
	DrainPendingDeletions(ctx context.Context, sess session.Session) (succeeded, remaining int, err error)

	// State reports the engine's current state.
	State() SyncState
}

type syncService struct {
	remote      remote.Store
	receiptRepo receipts.Repository
	pendingRepo pending.Repository
	images      imagex.Options
	log         logging.Logger

	mu      sync.Mutex
	stateMu sync.Mutex
	state   SyncState
}

// NewSyncService constructs the engine. All collaborators are injected; the
// remote store must already be authenticated for the sessions passed in.
func NewSyncService(rs remote.Store, rr receipts.Repository, pr pending.Repository, images imagex.Options, log logging.Logger) SyncService {
	return &syncService{
		remote:      rs,
		receiptRepo: rr,
		pendingRepo: pr,
		images:      images,
		log:         log.With("component", "sync"),
		state:       StateIdle,
	}
}

func (s *syncService) State() SyncState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *syncService) setState(st SyncState) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Reconcile classifies every local record against the remote set and
// propagates in the local-to-remote direction only. Last writer wins on the
// millisecond UpdatedAt timestamp; a strictly newer remote copy is counted as
// a conflict and left untouched (force-pull is the explicit way to take the
// remote side). Per-record failures are logged and skipped, never aborting
// the pass.
func (s *syncService) Reconcile(ctx context.Context, sess session.Session) (Outcome, error) {
	if !sess.Authenticated() {
		return Outcome{}, common.ErrorUnauthorized
	}
	if !s.mu.TryLock() {
		return Outcome{}, ErrSyncInFlight
	}
	defer s.mu.Unlock()

	s.setState(StateProbing)
	if !s.remote.Probe(ctx) {
		// Being offline is an expected condition for an offline-first
		// tool: zero counts, no failure state.
		s.setState(StateComplete)
		return Outcome{}, ErrOffline
	}

	s.setState(StateFetchingRemote)
	remoteRecords, err := s.remote.GetAll(ctx)
	if err != nil {
		s.setState(StateFailed)
		return Outcome{}, fmt.Errorf("failed to fetch remote records: %w", err)
	}
	remoteByID := make(map[string]models.Receipt, len(remoteRecords))
	for _, r := range remoteRecords {
		remoteByID[r.Id] = r
	}

	localRecords, err := s.receiptRepo.GetAll(ctx)
	if err != nil {
		s.setState(StateFailed)
		return Outcome{}, fmt.Errorf("failed to read local records: %w", err)
	}

	s.setState(StateReconciling)
	var out Outcome
	for _, local := range localRecords {
		remoteCopy, exists := remoteByID[local.Id]
		switch {
		case !exists:
			if s.pushRecord(ctx, local) {
				out.Added++
			}
		case local.NewerThan(remoteCopy):
			if s.pushRecord(ctx, local) {
				out.Updated++
			}
		case remoteCopy.NewerThan(local):
			out.Conflicts++
		default:
			// Millisecond-equal timestamps: no-op, not counted.
		}
	}

	s.setState(StateComplete)
	s.log.Info(ctx, "reconciliation pass complete",
		"added", out.Added, "updated", out.Updated, "conflicts", out.Conflicts)
	return out, nil
}

// pushRecord writes one local record to the remote, reporting success. On a
// validation rejection the write is retried once with the minimal-field copy
// (images and items stripped) before the record is given up on for this pass.
func (s *syncService) pushRecord(ctx context.Context, local models.Receipt) bool {
	err := s.remote.Put(ctx, s.outbound(local))
	if err == nil {
		return true
	}

	if errors.Is(err, common.ErrorValidation) {
		s.log.Warn(ctx, "remote rejected receipt, retrying minimal copy", "id", local.Id, "error", err)
		if retryErr := s.remote.Put(ctx, local.Normalized().Minimal()); retryErr != nil {
			s.log.Warn(ctx, "minimal retry failed, skipping receipt", "id", local.Id, "error", retryErr)
			return false
		}
		return true
	}

	s.log.Warn(ctx, "failed to push receipt, skipping", "id", local.Id, "error", err)
	return false
}

// outbound prepares a record for the remote store: optional fields made
// explicitly empty, every image payload normalized under the document size
// ceiling.
func (s *syncService) outbound(r models.Receipt) models.Receipt {
	out := r.Normalized()
	out.Image = imagex.Normalize(out.Image, s.images)
	if len(out.ExtraImages) > 0 {
		extras := make([]string, len(out.ExtraImages))
		for i, img := range out.ExtraImages {
			extras[i] = imagex.Normalize(img, s.images)
		}
		out.ExtraImages = extras
	}
	return out
}

// ForcePush copies all local records to the remote regardless of timestamps.
func (s *syncService) ForcePush(ctx context.Context, sess session.Session) (int, error) {
	if !sess.Authenticated() {
		return 0, common.ErrorUnauthorized
	}
	if !s.mu.TryLock() {
		return 0, ErrSyncInFlight
	}
	defer s.mu.Unlock()

	s.setState(StateProbing)
	if !s.remote.Probe(ctx) {
		s.setState(StateComplete)
		return 0, ErrOffline
	}

	localRecords, err := s.receiptRepo.GetAll(ctx)
	if err != nil {
		s.setState(StateFailed)
		return 0, fmt.Errorf("failed to read local records: %w", err)
	}

	s.setState(StateReconciling)
	pushed := 0
	for _, local := range localRecords {
		if s.pushRecord(ctx, local) {
			pushed++
		}
	}
	s.setState(StateComplete)
	return pushed, nil
}

// ForcePull copies all remote records into the local store regardless of
// timestamps, preserving the remote bookkeeping timestamps as read.
func (s *syncService) ForcePull(ctx context.Context, sess session.Session) (int, error) {
	if !sess.Authenticated() {
		return 0, common.ErrorUnauthorized
	}
	if !s.mu.TryLock() {
		return 0, ErrSyncInFlight
	}
	defer s.mu.Unlock()

	s.setState(StateProbing)
	if !s.remote.Probe(ctx) {
		s.setState(StateComplete)
		return 0, ErrOffline
	}

	s.setState(StateFetchingRemote)
	remoteRecords, err := s.remote.GetAll(ctx)
	if err != nil {
		s.setState(StateFailed)
		return 0, fmt.Errorf("failed to fetch remote records: %w", err)
	}

	s.setState(StateReconciling)
	pulled := 0
	for _, remoteCopy := range remoteRecords {
		rec := remoteCopy
		if err := s.receiptRepo.CreateOrUpdate(ctx, &rec); err != nil {
			s.log.Warn(ctx, "failed to write pulled receipt, skipping", "id", rec.Id, "error", err)
			continue
		}
		pulled++
	}
	s.setState(StateComplete)
	return pulled, nil
}

// DrainPendingDeletions replays every queued remote deletion once. A remote
// NotFound counts as already satisfied. One failure never blocks draining
// the rest.
func (s *syncService) DrainPendingDeletions(ctx context.Context, sess session.Session) (succeeded, remaining int, err error) {
	if !sess.Authenticated() {
		return 0, 0, common.ErrorUnauthorized
	}

	ids, err := s.pendingRepo.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read pending deletions: %w", err)
	}

	for _, id := range ids {
		delErr := s.remote.Delete(ctx, id)
		if delErr != nil && !errors.Is(delErr, common.ErrorNotFound) {
			s.log.Warn(ctx, "pending deletion still failing", "id", id, "error", delErr)
			remaining++
			continue
		}
		if rmErr := s.pendingRepo.Remove(ctx, id); rmErr != nil {
			s.log.Error(ctx, "failed to unqueue confirmed deletion", "id", id, "error", rmErr)
			remaining++
			continue
		}
		succeeded++
	}
	return succeeded, remaining, nil
}
