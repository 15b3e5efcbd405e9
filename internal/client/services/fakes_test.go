package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/client/ocr"
	"github.com/andrejsk/kvits/internal/client/session"
	"github.com/andrejsk/kvits/internal/client/storage"
	"github.com/andrejsk/kvits/internal/common"
	"github.com/andrejsk/kvits/internal/imagex"
	"github.com/andrejsk/kvits/internal/logging"
	"github.com/stretchr/testify/require"

	"log/slog"

	_ "modernc.org/sqlite"
)

// fakeRemote is an in-memory remote store with scripted failures. Like the
// real one, it rejects documents whose optional fields arrive as literal
// missing values instead of explicit empty ones.
type fakeRemote struct {
	mu   sync.Mutex
	docs map[string]models.Receipt

	offline   bool
	getAllErr error
	// putErrs holds a queue of scripted errors per id, consumed in order.
	putErrs    map[string][]error
	deleteErrs map[string]error

	putCalls    []models.Receipt
	deleteCalls []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:       make(map[string]models.Receipt),
		putErrs:    make(map[string][]error),
		deleteErrs: make(map[string]error),
	}
}

func (f *fakeRemote) scriptPutErr(id string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putErrs[id] = append(f.putErrs[id], errs...)
}

func (f *fakeRemote) Probe(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.offline
}

func (f *fakeRemote) GetAll(ctx context.Context) ([]models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return nil, common.ErrorConnectivity
	}
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	out := make([]models.Receipt, 0, len(f.docs))
	for _, r := range f.docs {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRemote) Get(ctx context.Context, id string) (*models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (f *fakeRemote) Put(ctx context.Context, r models.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls = append(f.putCalls, r)
	if f.offline {
		return common.ErrorConnectivity
	}
	if queue := f.putErrs[r.Id]; len(queue) > 0 {
		err := queue[0]
		f.putErrs[r.Id] = queue[1:]
		if err != nil {
			return err
		}
	}
	if r.Items == nil || r.ExtraImages == nil || r.Tags == nil {
		return fmt.Errorf("%w: optional fields must be explicitly empty", common.ErrorValidation)
	}
	f.docs[r.Id] = r
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if f.offline {
		return common.ErrorConnectivity
	}
	if err := f.deleteErrs[id]; err != nil {
		return err
	}
	if _, ok := f.docs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeRemote) doc(t *testing.T, id string) models.Receipt {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	require.True(t, ok, "remote doc %s missing", id)
	return r
}

func (f *fakeRemote) seed(r models.Receipt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[r.Id] = r
}

// testEnv bundles real SQLite-backed repositories with the fake remote.
type testEnv struct {
	repos  *storage.Repositories
	remote *fakeRemote
	log    logging.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	return &testEnv{
		repos:  repos,
		remote: newFakeRemote(),
		log:    logging.NewSlogLogger(slog.Default()),
	}
}

func (e *testEnv) syncService() SyncService {
	return NewSyncService(e.remote, e.repos.Receipts, e.repos.Pending, imagex.DefaultOptions(), e.log)
}

func (e *testEnv) receiptService(ex ocr.Extractor) ReceiptService {
	return NewReceiptService(e.repos.Receipts, e.repos.Pending, e.remote, ex, e.repos.InTx, imagex.DefaultOptions(), e.log)
}

type fakeExtractor struct {
	result *models.Receipt
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	return &out, nil
}

func testSession() session.Session {
	return session.Session{UserID: "user-1", Token: "tok", AutoSync: true}
}

func atMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// localReceipt builds a normalized-enough receipt with a given modification
// timestamp in milliseconds.
func localReceipt(id, store string, updatedMs int64) models.Receipt {
	return models.Receipt{
		Id: id, Store: store, Date: "2025-03-01", Total: 10,
		Currency:  "EUR",
		CreatedAt: atMilli(1), UpdatedAt: atMilli(updatedMs),
	}
}
