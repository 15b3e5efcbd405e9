package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/andrejsk/kvits/internal/client/repositories/settings"
	"github.com/andrejsk/kvits/internal/client/services"
)

// Sync runs one explicit reconciliation pass, after replaying any queued
// deletions. Unlike the automatic trigger, an unreachable server is reported
// to the user here.
func (a *App) Sync(ctx context.Context) error {
	succeeded, remaining, err := a.syncService.DrainPendingDeletions(ctx, a.sess)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if succeeded > 0 || remaining > 0 {
		fmt.Printf("Queued deletions: %d replayed, %d still queued\n", succeeded, remaining)
	}

	out, err := a.syncService.Reconcile(ctx, a.sess)
	if err != nil {
		if errors.Is(err, services.ErrOffline) {
			fmt.Println("Server unreachable, sync skipped")
			return nil
		}
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Sync complete: %d added, %d updated, %d conflicts\n", out.Added, out.Updated, out.Conflicts)
	if out.Conflicts > 0 {
		fmt.Println("Conflicting receipts kept their newer cloud copy; use 'push' to overwrite")
	}
	return nil
}

// Push overwrites every cloud record with the local copy, after an explicit
// confirmation.
func (a *App) Push(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Overwrite ALL cloud receipts with local copies? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Println("Cancelled")
		return nil
	}

	pushed, err := a.syncService.ForcePush(ctx, a.sess)
	if err != nil {
		if errors.Is(err, services.ErrOffline) {
			fmt.Println("Server unreachable, push skipped")
			return nil
		}
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Pushed %d receipt(s)\n", pushed)
	return nil
}

// Pull overwrites every local record with the cloud copy, after an explicit
// confirmation.
func (a *App) Pull(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Overwrite ALL local receipts with cloud copies? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Println("Cancelled")
		return nil
	}

	pulled, err := a.syncService.ForcePull(ctx, a.sess)
	if err != nil {
		if errors.Is(err, services.ErrOffline) {
			fmt.Println("Server unreachable, pull skipped")
			return nil
		}
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Pulled %d receipt(s)\n", pulled)
	return nil
}

// SetAutoSync persists the auto-sync preference and applies it to the
// current session.
func (a *App) SetAutoSync(ctx context.Context, on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	if err := a.repos.Settings.Set(ctx, settings.KeyAutoSync, value); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	a.sess.AutoSync = on

	if on {
		fmt.Println("Automatic sync enabled")
	} else {
		fmt.Println("Automatic sync disabled")
	}
	return nil
}
