// Package services contains the application services behind the CLI: account
// signup and login on top of the local credential store, and the task
// synchronization engine on top of the ledger client.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/cryptox"
	"github.com/dmitrijs2005/taskledger/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Signup: validate input, generate a keypair, store the account and sign in.
//   - Login: verify credentials against the local store and sign in.
//   - Logout: drop the active session.
//   - Restore: pick up the session persisted by a previous run, if any.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Signup(ctx context.Context, email string, password, confirm []byte) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*models.Session, error)
}

// AccountStore is the credential store used by AuthService.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, acc *models.Account) error
	Verify(ctx context.Context, email string, password []byte) (*models.Account, error)
}

// Sessions is the session manager used by AuthService.
type Sessions interface {
	Restore(ctx context.Context) (*models.Session, error)
	Start(ctx context.Context, acc *models.Account) (*models.Session, error)
	Clear(ctx context.Context) error
}

type authService struct {
	accounts AccountStore
	sessions Sessions
	logger   logging.Logger
	generate func() (keys.Keypair, error)
	now      func() time.Time
}

// NewAuthService constructs an AuthService over the credential store and the
// session manager.
func NewAuthService(accounts AccountStore, sessions Sessions, logger logging.Logger) AuthService {
	return &authService{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
		generate: keys.Generate,
		now:      time.Now,
	}
}

// Signup creates a local account with a fresh signing identity and starts a
// session for it.
func (a *authService) Signup(ctx context.Context, email string, password, confirm []byte) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateSignup(email, password, confirm); err != nil {
		return nil, err
	}

	_, err := a.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("signup %s: %w", email, common.ErrDuplicateAccount)
	case errors.Is(err, common.ErrNotFound):
	case errors.Is(err, common.ErrStorageCorrupt):
		a.logger.Warn(ctx, "existing account record is corrupt", "email", email, "error", err)
	default:
		return nil, fmt.Errorf("signup %s: %w", email, err)
	}

	kp, err := a.generate()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	salt := cryptox.NewSalt()
	acc := &models.Account{
		Email:        email,
		PasswordHash: cryptox.HashPassword(password, salt),
		PasswordSalt: salt,
		Address:      kp.Address,
		PrivateKey:   kp.PrivateKey,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.accounts.Create(ctx, acc); err != nil {
		return nil, fmt.Errorf("signup %s: %w", email, err)
	}
	a.logger.Info(ctx, "account created", "email", email, "address", acc.Address)

	return a.start(ctx, acc)
}

// Login verifies email and password and starts a session.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	acc, err := a.accounts.Verify(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			a.logger.Warn(ctx, "login rejected", "email", email)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.start(ctx, acc)
}

func (a *authService) start(ctx context.Context, acc *models.Account) (*models.Session, error) {
	s, err := a.sessions.Start(ctx, acc)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	return a.sessions.Restore(ctx)
}

func validateSignup(email string, password, confirm []byte) error {
	if email == "" || !strings.Contains(email, "@") {
		return common.ErrInvalidEmail
	}
	if len(password) < common.MinPasswordLength {
		return common.ErrPasswordTooShort
	}
	if string(password) != string(confirm) {
		return common.ErrPasswordMismatch
	}
	return nil
}
