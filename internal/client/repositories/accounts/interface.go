package accounts

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/client/models"
)

// Repository describes row-level access to stored accounts.
type Repository interface {
	// Insert stores a new account. A duplicate email yields
	// common.ErrDuplicateAccount.
	Insert(ctx context.Context, acc *models.Account) error

	// GetByEmail returns the account or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// Exists reports whether a record with this email is stored, without
	// decoding it.
	Exists(ctx context.Context, email string) (bool, error)

	// List returns all accounts in creation order.
	List(ctx context.Context) ([]*models.Account, error)
}
