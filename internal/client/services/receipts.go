// Package services contains the application layer of the Kvits client: the
// mutation façade every receipt create/update/delete passes through, the
// local/cloud synchronization engine, and spending analytics.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/client/ocr"
	"github.com/andrejsk/kvits/internal/client/repositories/pending"
	"github.com/andrejsk/kvits/internal/client/repositories/receipts"
	"github.com/andrejsk/kvits/internal/client/remote"
	"github.com/andrejsk/kvits/internal/client/session"
	"github.com/andrejsk/kvits/internal/client/storage"
	"github.com/andrejsk/kvits/internal/common"
	"github.com/andrejsk/kvits/internal/imagex"
	"github.com/andrejsk/kvits/internal/logging"
	"github.com/google/uuid"
)

var ErrInvalidReceipt = errors.New("invalid receipt")

// SaveOutcome reports a create/update. RemoteErr is non-nil when the local
// write succeeded but the cloud mirror failed; the local result stands and
// the next reconciliation pass will converge.
type SaveOutcome struct {
	Receipt   *models.Receipt
	RemoteErr error
}

// DeleteOutcome reports a delete. Queued means the identifier sits in the
// pending-deletion queue awaiting a successful remote delete. RemoteErr
// carries the remote failure, if any; callers warn the user about it unless
// it is a plain connectivity error.
type DeleteOutcome struct {
	Queued    bool
	RemoteErr error
}

// ReceiptService is the mutation façade: every create, update and delete of
// a receipt goes through it. The local store is written first and is
// authoritative for application state; remote mirroring is best-effort and
// never rolls back a local result.
type ReceiptService interface {
	Create(ctx context.Context, sess session.Session, draft models.Receipt) (SaveOutcome, error)
	CreateFromImage(ctx context.Context, sess session.Session, image []byte) (SaveOutcome, error)
	Update(ctx context.Context, sess session.Session, r models.Receipt) (SaveOutcome, error)
	Delete(ctx context.Context, sess session.Session, id string) (DeleteOutcome, error)
	Get(ctx context.Context, id string) (*models.Receipt, error)
	List(ctx context.Context) ([]models.Receipt, error)
}

type receiptService struct {
	receiptRepo receipts.Repository
	pendingRepo pending.Repository
	remote      remote.Store
	extractor   ocr.Extractor
	inTx        storage.TxRunner
	images      imagex.Options
	log         logging.Logger
	nowFn       func() time.Time
}

// NewReceiptService constructs the façade. The extractor may be nil when no
// OCR endpoint is configured; CreateFromImage then always takes the manual
// fallback path.
func NewReceiptService(rr receipts.Repository, pr pending.Repository, rs remote.Store, ex ocr.Extractor, inTx storage.TxRunner, images imagex.Options, log logging.Logger) ReceiptService {
	return &receiptService{
		receiptRepo: rr,
		pendingRepo: pr,
		remote:      rs,
		extractor:   ex,
		inTx:        inTx,
		images:      images,
		log:         log.With("component", "receipts"),
		nowFn:       time.Now,
	}
}

func validateDraft(r models.Receipt) error {
	if r.Total < 0 {
		return fmt.Errorf("%w: total must not be negative", ErrInvalidReceipt)
	}
	if r.Date != "" {
		if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidReceipt, r.Date)
		}
	}
	for _, item := range r.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: line item %q quantity must be positive", ErrInvalidReceipt, item.Name)
		}
	}
	return nil
}

// Create assigns a fresh identifier and bookkeeping timestamps, writes the
// receipt locally, then mirrors it to the remote store when a user is signed
// in.
func (s *receiptService) Create(ctx context.Context, sess session.Session, draft models.Receipt) (SaveOutcome, error) {
	if err := validateDraft(draft); err != nil {
		return SaveOutcome{}, err
	}

	now := s.nowFn().UTC()
	rec := draft
	rec.Id = uuid.NewString()
	if rec.Date == "" {
		rec.Date = now.Format(models.DateLayout)
	}
	rec.CreatedAt = now
	rec.Touch(now)

	if err := s.receiptRepo.CreateOrUpdate(ctx, &rec); err != nil {
		return SaveOutcome{}, fmt.Errorf("saving error: %w", err)
	}

	return SaveOutcome{Receipt: &rec, RemoteErr: s.mirror(ctx, sess, rec)}, nil
}

// CreateFromImage extracts a structured receipt from a photo and creates it.
// Any extraction failure degrades to a minimally-populated manual-entry
// receipt carrying the photo; that fallback is normal creation flow, not an
// error.
func (s *receiptService) CreateFromImage(ctx context.Context, sess session.Session, image []byte) (SaveOutcome, error) {
	var draft *models.Receipt
	if s.extractor != nil {
		extracted, err := s.extractor.Extract(ctx, image)
		if err == nil {
			draft = extracted
		} else {
			s.log.Warn(ctx, "extraction failed, falling back to manual entry", "error", err)
		}
	}
	if draft == nil {
		draft = manualFallback(s.nowFn().UTC())
	}
	if validateDraft(*draft) != nil {
		// Extractor output is best-effort; never fail the capture over it.
		draft = manualFallback(s.nowFn().UTC())
	}
	draft.Image = base64.StdEncoding.EncodeToString(image)

	return s.Create(ctx, sess, *draft)
}

// manualFallback is the minimally-populated receipt used when extraction is
// unavailable or failed: the user fills the fields in afterwards.
func manualFallback(now time.Time) *models.Receipt {
	return &models.Receipt{
		Store: "Unknown",
		Date:  now.Format(models.DateLayout),
		Total: 0,
		Items: []models.LineItem{{Name: "item", Quantity: 1, Price: 0}},
	}
}

// Update overwrites an existing receipt, advancing its modification
// timestamp monotonically, then mirrors to the remote store.
func (s *receiptService) Update(ctx context.Context, sess session.Session, r models.Receipt) (SaveOutcome, error) {
	if err := validateDraft(r); err != nil {
		return SaveOutcome{}, err
	}

	current, err := s.receiptRepo.GetByID(ctx, r.Id)
	if err != nil {
		return SaveOutcome{}, fmt.Errorf("error retrieving receipt: %w", err)
	}

	rec := r
	rec.CreatedAt = current.CreatedAt
	rec.UpdatedAt = current.UpdatedAt
	rec.Touch(s.nowFn().UTC())

	if err := s.receiptRepo.CreateOrUpdate(ctx, &rec); err != nil {
		return SaveOutcome{}, fmt.Errorf("saving error: %w", err)
	}

	return SaveOutcome{Receipt: &rec, RemoteErr: s.mirror(ctx, sess, rec)}, nil
}

// mirror best-effort copies a record to the remote store. Failures are
// logged and reported back but never undo the local write.
func (s *receiptService) mirror(ctx context.Context, sess session.Session, rec models.Receipt) error {
	if !sess.Authenticated() {
		return nil
	}

	out := rec.Normalized()
	out.Image = imagex.Normalize(out.Image, s.images)
	if len(out.ExtraImages) > 0 {
		extras := make([]string, len(out.ExtraImages))
		for i, img := range out.ExtraImages {
			extras[i] = imagex.Normalize(img, s.images)
		}
		out.ExtraImages = extras
	}

	if err := s.remote.Put(ctx, out); err != nil {
		s.log.Warn(ctx, "remote mirror failed", "id", rec.Id, "error", err)
		return err
	}
	return nil
}

// Delete removes the receipt locally and enqueues its identifier for remote
// deletion in the same transaction, so a crash between the local delete and
// the remote call cannot lose the compensation marker. The remote delete is
// then attempted immediately; on success (or remote NotFound) the queue
// entry is confirmed away.
func (s *receiptService) Delete(ctx context.Context, sess session.Session, id string) (DeleteOutcome, error) {
	err := s.inTx(ctx, func(ctx context.Context, rr receipts.Repository, pr pending.Repository) error {
		if err := rr.DeleteByID(ctx, id); err != nil {
			return err
		}
		return pr.Enqueue(ctx, id)
	})
	if err != nil {
		// The local half failed: the operation did not happen.
		return DeleteOutcome{}, fmt.Errorf("error deleting receipt: %w", err)
	}

	if !sess.Authenticated() {
		return DeleteOutcome{Queued: true}, nil
	}

	delErr := s.remote.Delete(ctx, id)
	if delErr != nil && !errors.Is(delErr, common.ErrorNotFound) {
		s.log.Warn(ctx, "remote delete failed, deletion queued", "id", id, "error", delErr)
		return DeleteOutcome{Queued: true, RemoteErr: delErr}, nil
	}

	if err := s.pendingRepo.Remove(ctx, id); err != nil {
		// Harmless leftover: the drain will hit remote NotFound and
		// clear it.
		s.log.Warn(ctx, "failed to unqueue confirmed deletion", "id", id, "error", err)
		return DeleteOutcome{Queued: true}, nil
	}
	return DeleteOutcome{}, nil
}

func (s *receiptService) Get(ctx context.Context, id string) (*models.Receipt, error) {
	rec, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving receipt: %w", err)
	}
	return rec, nil
}

func (s *receiptService) List(ctx context.Context) ([]models.Receipt, error) {
	rows, err := s.receiptRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing receipts: %w", err)
	}
	return rows, nil
}
