// Package session keeps the single active signed-in identity and persists it
// across restarts.
//
// The persisted form is an HS256 JWT stored in the metadata table, signed
// with a random per-install secret. The token carries the email and address
// only; the signing key is re-read from the credential store on restore. Any
// token that fails to parse or verify, or that points at a missing or corrupt
// account, is deleted and the manager stays Unauthenticated. A failed read of
// the store is returned instead and leaves the token in place.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// State is the authentication state of a Manager.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// AccountFinder is the part of the credential store the manager needs.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// Claims is the persisted session payload.
type Claims struct {
	jwt.RegisteredClaims
	Address string `json:"addr"`
}

var errTokenMismatch = errors.New("session token does not match account")

// readError marks a decode failure caused by the store being unreadable, as
// opposed to the persisted data being bad.
type readError struct{ err error }

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// Manager owns the active session. It is safe for concurrent use.
type Manager struct {
	meta     metadata.Repository
	accounts AccountFinder
	logger   logging.Logger
	now      func() time.Time

	mu        sync.RWMutex
	current   *models.Session
	observers []func(*models.Session)
}

// NewManager returns a Manager in the Unauthenticated state. Call Restore to
// pick up a persisted session.
func NewManager(meta metadata.Repository, accounts AccountFinder, logger logging.Logger) *Manager {
	return &Manager{meta: meta, accounts: accounts, logger: logger, now: time.Now}
}

// OnChange registers fn to be called after every activation or deactivation
// with the new session (nil when signed out).
func (m *Manager) OnChange(fn func(*models.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Current returns the active session or nil.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// State reports whether a session is active.
func (m *Manager) State() State {
	if m.Current() != nil {
		return Authenticated
	}
	return Unauthenticated
}

// Restore loads the persisted session. Undecodable or stale data is cleared
// and reported as no session (nil, nil). Only storage failures are returned.
func (m *Manager) Restore(ctx context.Context) (*models.Session, error) {
	raw, err := m.meta.Get(ctx, common.SessionMetadataKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if raw == nil {
		m.activate(nil)
		return nil, nil
	}

	s, err := m.decode(ctx, string(raw))
	var rerr *readError
	if errors.As(err, &rerr) {
		m.activate(nil)
		return nil, fmt.Errorf("restore session: %w", rerr.err)
	}
	if err != nil {
		m.logger.Warn(ctx, "discarding persisted session", "error", err)
		if derr := m.meta.Delete(ctx, common.SessionMetadataKey); derr != nil {
			m.logger.Error(ctx, "failed to clear persisted session", "error", derr)
		}
		m.activate(nil)
		return nil, nil
	}

	m.activate(s)
	m.logger.Info(ctx, "session restored", "email", s.Email, "address", s.Address)
	return s, nil
}

// Start persists a session for acc, replacing any previous one, and makes it
// active.
func (m *Manager) Start(ctx context.Context, acc *models.Account) (*models.Session, error) {
	signer, err := keys.NewSigner(acc.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", acc.Email, err)
	}

	secret, err := m.secret(ctx, true)
	if err != nil {
		return nil, err
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  acc.Email,
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
		Address: acc.Address,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	if err := m.meta.Set(ctx, common.SessionMetadataKey, []byte(token)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s := &models.Session{Email: acc.Email, Address: acc.Address, Signer: signer}
	m.activate(s)
	m.logger.Info(ctx, "session started", "email", s.Email, "address", s.Address)
	return s, nil
}

// Clear removes the persisted session and deactivates it.
func (m *Manager) Clear(ctx context.Context) error {
	err := m.meta.Delete(ctx, common.SessionMetadataKey)
	m.activate(nil)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) decode(ctx context.Context, token string) (*models.Session, error) {
	secret, err := m.secret(ctx, false)
	if err != nil {
		if errors.Is(err, common.ErrStorageCorrupt) {
			return nil, err
		}
		return nil, &readError{err}
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	acc, err := m.accounts.FindByEmail(ctx, claims.Subject)
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrStorageCorrupt):
		return nil, fmt.Errorf("session account %s: %w", claims.Subject, err)
	case err != nil:
		return nil, &readError{fmt.Errorf("session account %s: %w", claims.Subject, err)}
	}
	if !strings.EqualFold(acc.Address, claims.Address) {
		return nil, errTokenMismatch
	}

	signer, err := keys.NewSigner(acc.PrivateKey)
	if err != nil {
		return nil, err
	}
	return &models.Session{Email: acc.Email, Address: acc.Address, Signer: signer}, nil
}

// secret returns the install secret, generating it when create is set.
func (m *Manager) secret(ctx context.Context, create bool) ([]byte, error) {
	secret, err := m.meta.Get(ctx, common.SessionSecretMetadataKey)
	if err != nil {
		return nil, fmt.Errorf("read session secret: %w", err)
	}
	if len(secret) > 0 {
		return secret, nil
	}
	if !create {
		return nil, fmt.Errorf("session secret missing: %w", common.ErrStorageCorrupt)
	}

	secret = common.GenerateRandByteArray(32)
	if err := m.meta.Set(ctx, common.SessionSecretMetadataKey, secret); err != nil {
		return nil, fmt.Errorf("persist session secret: %w", err)
	}
	return secret, nil
}

func (m *Manager) activate(s *models.Session) {
	m.mu.Lock()
	m.current = s
	observers := append([]func(*models.Session){}, m.observers...)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}
