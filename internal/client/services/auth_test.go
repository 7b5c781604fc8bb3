package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/taskledger/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskledger/internal/client/session"
	"github.com/dmitrijs2005/taskledger/internal/client/storage"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type authFixture struct {
	store    *accounts.Store
	sessions *session.Manager
	svc      *authService
}

func setupAuth(t *testing.T) *authFixture {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := accounts.NewStore(db)
	sessions := session.NewManager(metadata.NewSQLiteRepository(db), store, logging.Nop())
	svc := NewAuthService(store, sessions, logging.Nop()).(*authService)
	return &authFixture{store: store, sessions: sessions, svc: svc}
}

func pw(s string) []byte { return []byte(s) }

// ---- tests ----

func TestSignup_StoresGeneratedIdentity(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)

	var generated keys.Keypair
	f.svc.generate = func() (keys.Keypair, error) {
		kp, err := keys.Generate()
		generated = kp
		return kp, err
	}

	s, err := f.svc.Signup(ctx, "test@example.com", pw("password123"), pw("password123"))
	require.NoError(t, err)
	require.True(t, s.CanSign())
	assert.Equal(t, generated.Address, s.Address)
	assert.Equal(t, session.Authenticated, f.sessions.State())

	acc, err := f.store.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", acc.Email)
	assert.Equal(t, generated.Address, acc.Address)
	assert.Equal(t, generated.PrivateKey, acc.PrivateKey)
	assert.NotContains(t, string(acc.PasswordHash), "password123")
}

func TestSignup_DuplicateLeavesExisting(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)

	_, err := f.svc.Signup(ctx, "dup@example.com", pw("password123"), pw("password123"))
	require.NoError(t, err)
	before, err := f.store.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)

	called := false
	f.svc.generate = func() (keys.Keypair, error) {
		called = true
		return keys.Generate()
	}
	_, err = f.svc.Signup(ctx, "dup@example.com", pw("another1"), pw("another1"))
	require.ErrorIs(t, err, common.ErrDuplicateAccount)
	assert.False(t, called, "keypair generated for a duplicate signup")

	after, err := f.store.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSignup_Validation(t *testing.T) {
	f := setupAuth(t)
	tests := []struct {
		name    string
		email   string
		pass    string
		confirm string
		want    error
	}{
		{"empty email", "", "password123", "password123", common.ErrInvalidEmail},
		{"no at sign", "user.example.com", "password123", "password123", common.ErrInvalidEmail},
		{"short password", "a@b.c", "12345", "12345", common.ErrPasswordTooShort},
		{"mismatch", "a@b.c", "password123", "password124", common.ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Signup(context.Background(), tt.email, pw(tt.pass), pw(tt.confirm))
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, common.ErrValidation)
		})
	}
	assert.Equal(t, session.Unauthenticated, f.sessions.State())
}

func TestSignup_KeygenFailure(t *testing.T) {
	f := setupAuth(t)
	boom := errors.New("entropy exhausted")
	f.svc.generate = func() (keys.Keypair, error) { return keys.Keypair{}, boom }

	_, err := f.svc.Signup(context.Background(), "a@b.c", pw("password123"), pw("password123"))
	require.ErrorIs(t, err, boom)

	_, err = f.store.FindByEmail(context.Background(), "a@b.c")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	_, err := f.svc.Signup(ctx, "test@example.com", pw("password123"), pw("password123"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx))
	require.Equal(t, session.Unauthenticated, f.sessions.State())

	_, err = f.svc.Login(ctx, "test@example.com", pw("wrongpassword"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@example.com", pw("password123"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, session.Unauthenticated, f.sessions.State())

	s, err := f.svc.Login(ctx, "test@example.com", pw("password123"))
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", s.Email)
	assert.Equal(t, session.Authenticated, f.sessions.State())
}

func TestRestore_AfterSignup(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	s, err := f.svc.Signup(ctx, "r@example.com", pw("password123"), pw("password123"))
	require.NoError(t, err)

	restored, err := f.svc.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, s.Address, restored.Address)

	require.NoError(t, f.svc.Logout(ctx))
	restored, err = f.svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
}

// ---- failure paths with stubs ----

type stubStore struct {
	findErr error
	created *models.Account
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return nil, s.findErr
}

func (s *stubStore) Create(ctx context.Context, acc *models.Account) error {
	s.created = acc
	return nil
}

func (s *stubStore) Verify(ctx context.Context, email string, password []byte) (*models.Account, error) {
	return nil, common.ErrInvalidCredentials
}

type stubSessions struct {
	startErr error
	clearErr error
}

func (s *stubSessions) Restore(ctx context.Context) (*models.Session, error) { return nil, nil }

func (s *stubSessions) Start(ctx context.Context, acc *models.Account) (*models.Session, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	return &models.Session{Email: acc.Email, Address: acc.Address}, nil
}

func (s *stubSessions) Clear(ctx context.Context) error { return s.clearErr }

func TestSignup_StoreReadErrorAborts(t *testing.T) {
	store := &stubStore{findErr: errors.New("disk I/O error")}
	svc := NewAuthService(store, &stubSessions{}, logging.Nop())

	_, err := svc.Signup(context.Background(), "a@b.c", pw("password123"), pw("password123"))
	require.Error(t, err)
	assert.Nil(t, store.created)
}

func TestSignup_CorruptRecordFallsThroughToCreate(t *testing.T) {
	store := &stubStore{findErr: common.ErrStorageCorrupt}
	svc := NewAuthService(store, &stubSessions{}, logging.Nop())

	s, err := svc.Signup(context.Background(), " a@b.c ", pw("password123"), pw("password123"))
	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, "a@b.c", store.created.Email)
	assert.Equal(t, store.created.Address, s.Address)
}

func TestSessionErrorsWrapped(t *testing.T) {
	boom := errors.New("metadata write failed")
	svc := NewAuthService(&stubStore{findErr: common.ErrNotFound}, &stubSessions{startErr: boom, clearErr: boom}, logging.Nop())

	_, err := svc.Signup(context.Background(), "a@b.c", pw("password123"), pw("password123"))
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, svc.Logout(context.Background()), boom)
}
