package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/Skotchmaster/diary/internal/tokens"
)

// SessionAuthority issues and verifies bearer tokens. It keeps no server-side
// session state: a token is valid until its exp claim passes.
type SessionAuthority struct {
	Credentials *CredentialStore
	Secret      []byte
	Now         func() time.Time
}

func (a *SessionAuthority) Login(ctx context.Context, username, password string) (tokens.Issued, error) {
	l := logging.FromContext(ctx).With("svc", "session.login", "username", NormalizeUsername(username))

	if NormalizeUsername(username) == "" || password == "" {
		return tokens.Issued{}, validationError("Username and password are required.")
	}

	user, err := a.Credentials.Authenticate(ctx, username, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return tokens.Issued{}, err
	}

	issued, err := tokens.Sign(user.ID, a.Secret, now(a.Now), tokens.TTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return tokens.Issued{}, fmt.Errorf("sign token: %w", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return issued, nil
}

// Verify returns the user id bound to a presented token.
func (a *SessionAuthority) Verify(presented string) (string, error) {
	if presented == "" {
		return "", ErrMissingToken
	}
	claims, err := tokens.ClaimsFromToken(presented, a.Secret, a.clock())
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (a *SessionAuthority) clock() func() time.Time {
	if a.Now == nil {
		return time.Now
	}
	return a.Now
}
