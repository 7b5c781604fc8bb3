package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository over the accounts table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to db (*sql.DB or *sql.Tx).
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, acc *models.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (email, password_hash, password_salt, address, private_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		acc.Email, acc.PasswordHash, acc.PasswordSalt, acc.Address, acc.PrivateKey,
		acc.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert account %s: %w", acc.Email, common.ErrDuplicateAccount)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT email, password_hash, password_salt, address, private_key, created_at
		FROM accounts WHERE email = ?`, email)

	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email, password_hash, password_salt, address, private_key, created_at
		FROM accounts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	var (
		acc       models.Account
		createdAt string
	)
	err := s.Scan(&acc.Email, &acc.PasswordHash, &acc.PasswordSalt, &acc.Address, &acc.PrivateKey, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}

	acc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("account %s: created_at: %w", acc.Email, common.ErrStorageCorrupt)
	}
	if len(acc.PasswordHash) == 0 || len(acc.PasswordSalt) == 0 {
		return nil, fmt.Errorf("account %s: missing password hash: %w", acc.Email, common.ErrStorageCorrupt)
	}
	if !keys.Matches(acc.PrivateKey, acc.Address) {
		return nil, fmt.Errorf("account %s: key does not match address: %w", acc.Email, common.ErrStorageCorrupt)
	}
	return &acc, nil
}

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
