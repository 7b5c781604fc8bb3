package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/cryptox"
	"github.com/dmitrijs2005/taskledger/internal/dbx"
)

// Store is the credential store.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store over an initialized database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindByEmail returns the stored account, common.ErrNotFound, or
// common.ErrStorageCorrupt when the record cannot be decoded.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return NewSQLiteRepository(s.db).GetByEmail(ctx, email)
}

// Create inserts acc unless an account with the same email exists, in which
// case common.ErrDuplicateAccount is returned and the existing record is left
// untouched.
func (s *Store) Create(ctx context.Context, acc *models.Account) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		exists, err := repo.Exists(ctx, acc.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("create account %s: %w", acc.Email, common.ErrDuplicateAccount)
		}
		return repo.Insert(ctx, acc)
	})
}

// All returns every stored account. A corrupt record makes the whole
// collection unusable: the error is common.ErrStorageCorrupt and the result
// is empty.
func (s *Store) All(ctx context.Context) ([]*models.Account, error) {
	list, err := NewSQLiteRepository(s.db).List(ctx)
	if errors.Is(err, common.ErrStorageCorrupt) {
		return []*models.Account{}, err
	}
	return list, err
}

// Verify returns the account whose stored hash matches password. A missing
// account and a wrong password both yield common.ErrInvalidCredentials.
func (s *Store) Verify(ctx context.Context, email string, password []byte) (*models.Account, error) {
	acc, err := s.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !cryptox.VerifyPassword(password, acc.PasswordSalt, acc.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return acc, nil
}
