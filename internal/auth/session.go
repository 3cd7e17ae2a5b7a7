// Package auth implements the vault session: registration, login and logout
// against the locally persisted credential record. The session object owns
// the derived key for the process lifetime; there is no package-level state,
// so tests can run isolated sessions side by side.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/cryptox"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/users"
)

// Session holds the authentication state for one vault. At most one
// authenticated session exists per Session value; the derived key lives
// only in memory and is wiped on Logout.
type Session struct {
	repo     users.Repository
	logger   logging.Logger
	username string
	key      []byte
	onLogout []func()
}

// NewSession returns an unauthenticated session over the given repository.
func NewSession(repo users.Repository, logger logging.Logger) *Session {
	return &Session{repo: repo, logger: logger}
}

// OnLogout registers a hook invoked after the session key is dropped,
// e.g. to clear decrypted secrets held elsewhere.
func (s *Session) OnLogout(fn func()) {
	s.onLogout = append(s.onLogout, fn)
}

// IsAuthenticated reports whether a session key is currently held.
func (s *Session) IsAuthenticated() bool {
	return s.key != nil
}

// Username returns the name of the authenticated user, or "".
func (s *Session) Username() string {
	return s.username
}

// Key returns the in-memory session key. Callers must not retain it past
// the session lifetime and must never persist it.
func (s *Session) Key() []byte {
	return s.key
}

// Register creates a new user record and transitions to the authenticated
// state holding the freshly derived key. It fails with
// common.ErrDuplicateUser when the username is already registered.
func (s *Session) Register(ctx context.Context, username string, password []byte) error {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)

	key, err := cryptox.DeriveKey(password, salt)
	if err != nil {
		return err
	}
	verifier := cryptox.MakeVerifier(key)

	cred := &models.UserCredential{Username: username, Salt: salt, Verifier: verifier}
	if err := s.repo.Create(ctx, cred); err != nil {
		common.WipeByteArray(key)
		return err
	}

	s.username = username
	s.key = key
	s.logger.Info(ctx, "user registered", "username", username)
	return nil
}

// Login verifies the password against the stored record. A missing user
// yields common.ErrUserNotFound, a wrong password common.ErrInvalidCredentials;
// both paths pay the full key-derivation cost so they are not trivially
// distinguishable by timing.
func (s *Session) Login(ctx context.Context, username string, password []byte) error {
	cred, err := s.repo.Get(ctx, username)
	if err != nil {
		// Burn the same derivation work as the happy path.
		if _, derr := cryptox.DeriveKey(password, make([]byte, cryptox.SaltSize)); derr != nil {
			return derr
		}
		return err
	}

	key, err := cryptox.DeriveKey(password, cred.Salt)
	if err != nil {
		return fmt.Errorf("stored salt unusable: %w", err)
	}
	verifier := cryptox.MakeVerifier(key)

	if subtle.ConstantTimeCompare(cred.Verifier, verifier) == 0 {
		common.WipeByteArray(key)
		return common.ErrInvalidCredentials
	}

	s.username = username
	s.key = key
	s.logger.Info(ctx, "login successful", "username", username)
	return nil
}

// Logout wipes and drops the session key and runs the registered hooks.
// It is the only sanctioned way to end a session.
func (s *Session) Logout(ctx context.Context) {
	if s.key == nil {
		return
	}
	common.WipeByteArray(s.key)
	s.key = nil
	s.username = ""
	for _, fn := range s.onLogout {
		fn()
	}
	s.logger.Info(ctx, "logged out")
}
