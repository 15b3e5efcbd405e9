package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/andrejsk/kvits/internal/client/config"
	"github.com/andrejsk/kvits/internal/client/ocr"
	"github.com/andrejsk/kvits/internal/client/remote"
	"github.com/andrejsk/kvits/internal/client/repositories/settings"
	"github.com/andrejsk/kvits/internal/client/services"
	"github.com/andrejsk/kvits/internal/client/session"
	"github.com/andrejsk/kvits/internal/client/storage"
	"github.com/andrejsk/kvits/internal/imagex"
	"github.com/andrejsk/kvits/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App wires the local store, the remote adapter and the services together and
// drives the interactive loop. Every command works in offline mode; the Mode
// field only reflects connectivity for the prompt and the auto-sync trigger.
type App struct {
	config         *config.Config
	repos          *storage.Repositories
	remote         *remote.HTTPStore
	receiptService services.ReceiptService
	statsService   services.StatsService
	syncService    services.SyncService
	sess           session.Session
	Mode           Mode
	reader         *bufio.Reader
	log            logging.Logger
}

func NewApp(ctx context.Context, c *config.Config, lg logging.Logger) (*App, error) {

	repos, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := remote.NewHTTPStore(c.RemoteBaseURL, c.RequestTimeout)

	var extractor ocr.Extractor
	if c.OCREndpointURL != "" {
		extractor = ocr.NewHTTPExtractor(c.OCREndpointURL, c.RequestTimeout)
	}

	images := imagex.Options{
		MaxEncodedBytes: c.MaxImageBytes,
		MaxDimension:    c.MaxImageDimension,
		Quality:         c.ImageQuality,
	}

	app := &App{
		config:         c,
		repos:          repos,
		remote:         store,
		receiptService: services.NewReceiptService(repos.Receipts, repos.Pending, store, extractor, repos.InTx, images, lg),
		statsService:   services.NewStatsService(repos.Receipts),
		syncService:    services.NewSyncService(store, repos.Receipts, repos.Pending, images, lg),
		Mode:           ModeOffline,
		reader:         bufio.NewReader(os.Stdin),
		log:            lg,
	}

	if err := app.restoreSession(ctx); err != nil {
		// A stale or corrupt cached token is not fatal; start signed out.
		lg.Warn(ctx, "cached session not restored", "error", err)
	}

	return app, nil
}

// restoreSession rebuilds the session from the cached token, if any. Expired
// or unparseable tokens are cleared so the next start is clean.
func (a *App) restoreSession(ctx context.Context) error {
	token, err := a.repos.Settings.Get(ctx, settings.KeySessionToken)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	autoSync, err := a.repos.Settings.Get(ctx, settings.KeyAutoSync)
	if err != nil {
		return err
	}

	sess, err := session.FromToken(token, autoSync != "0")
	if err != nil {
		_ = a.repos.Settings.Set(ctx, settings.KeySessionToken, "")
		return err
	}

	a.sess = sess
	a.remote.SetToken(sess.Token)
	return nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sess.Authenticated()
}

// backgroundSync replays queued deletions and, when the auto-sync preference
// is on, runs one reconciliation pass. It is fired after sign-in and on
// offline-to-online transitions; being offline again by the time it runs is
// fine, the pass skips silently.
func (a *App) backgroundSync(ctx context.Context) {
	if _, _, err := a.syncService.DrainPendingDeletions(ctx, a.sess); err != nil {
		a.log.Warn(ctx, "pending deletion replay failed", "error", err)
	}
	if !a.sess.AutoSync {
		return
	}
	if _, err := a.syncService.Reconcile(ctx, a.sess); err != nil && !errors.Is(err, services.ErrOffline) {
		a.log.Warn(ctx, "automatic sync failed", "error", err)
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			online := a.remote.Probe(probeCtx)
			cancel()

			if !online {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
					if a.sess.Authenticated() {
						go a.backgroundSync(ctx)
					}
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
