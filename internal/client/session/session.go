// Package session carries the authenticated-user context that the façade and
// the sync engine receive explicitly at call time. There is no ambient
// current-user singleton; callers construct a Session and pass it down.
package session

import (
	"fmt"
	"time"

	"github.com/andrejsk/kvits/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Session identifies the signed-in user and their sync preference. The zero
// value means "no user": local-only operation.
type Session struct {
	// UserID is the owner scope for remote reads and writes.
	UserID string
	// Token is the opaque credential presented to the remote store.
	Token string
	// AutoSync controls whether a reconciliation pass runs automatically
	// after sign-in.
	AutoSync bool
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.UserID != "" && s.Token != ""
}

// nowFn is a test seam for expiry checks.
var nowFn = time.Now

// FromToken derives a Session from a remote-issued JWT. The signature is not
// verified here: the remote store is the authority on token validity; the
// client only needs the subject claim for the owner scope and the expiry to
// avoid presenting a token that is already dead.
func FromToken(token string, autoSync bool) (Session, error) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return Session{}, fmt.Errorf("%w: no subject claim", common.ErrInvalidToken)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(nowFn()) {
		return Session{}, common.ErrTokenExpired
	}

	return Session{UserID: claims.Subject, Token: token, AutoSync: autoSync}, nil
}
