package cli

import (
	"context"
	"log"
	"os"

	"github.com/andrejsk/kvits/internal/client/repositories/settings"
	"github.com/andrejsk/kvits/internal/client/session"
	"github.com/andrejsk/kvits/internal/common"
)

// getSecret is an indirection used to facilitate testing. It points to the
// interactive input helper and can be swapped in tests.
var getSecret = GetSecret

// Login prompts for the access token issued by the backend and derives the
// session from it. The token is cached in local settings so the next start
// restores the session without prompting.
//
// On success connectivity Mode is probed; when online, queued deletions are
// replayed in the background and, with auto-sync enabled, a reconciliation
// pass follows. The token input buffer is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret(os.Stdout, "Enter access token")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	autoSync, err := a.repos.Settings.Get(ctx, settings.KeyAutoSync)
	if err != nil {
		return err
	}

	sess, err := session.FromToken(string(token), autoSync != "0")
	if err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	if err := a.repos.Settings.Set(ctx, settings.KeySessionToken, sess.Token); err != nil {
		return err
	}

	a.sess = sess
	a.remote.SetToken(sess.Token)
	log.Printf("Login successfull")

	if a.remote.Probe(ctx) {
		a.setMode(ModeOnline)
		go a.backgroundSync(ctx)
	} else {
		a.setMode(ModeOffline)
	}
	return nil
}

// Logout drops the in-memory session and removes the cached token. Local
// receipts stay on disk; the next login picks up where sync left off.
func (a *App) Logout(ctx context.Context) error {
	if err := a.repos.Settings.Set(ctx, settings.KeySessionToken, ""); err != nil {
		return err
	}
	a.sess = session.Session{}
	a.remote.SetToken("")
	return nil
}
