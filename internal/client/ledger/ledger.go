// Package ledger is the typed client for the remote task ledger.
//
// A Client is bound to one signing identity. Reads (Count, Get) return
// immediately; writes return a Transaction that must be confirmed before the
// change is durable. Errors are the sentinels from internal/common:
// ErrNotFound, ErrUnauthorized, ErrNetworkUnavailable, ErrDisconnected and,
// from Confirm, ErrTransactionFailed.
//
// Two backends exist: EthConnector talks to a TodoList contract over
// Ethereum JSON-RPC, MemoryLedger keeps tasks in process.
package ledger

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
)

// Client is the ledger surface used by the task service.
type Client interface {
	// Count returns the number of tasks currently on the ledger.
	Count(ctx context.Context) (uint64, error)
	// Get returns the task at position id, or common.ErrNotFound when id is
	// outside [0, Count).
	Get(ctx context.Context, id uint64) (models.Task, error)

	Add(ctx context.Context, content string) (Transaction, error)
	Update(ctx context.Context, id uint64, content string) (Transaction, error)
	Toggle(ctx context.Context, id uint64) (Transaction, error)
	Delete(ctx context.Context, id uint64) (Transaction, error)
}

// Transaction is a submitted write.
type Transaction interface {
	// Hash identifies the submitted write.
	Hash() string
	// Confirm blocks until the write is durable. Rejection or timeout yields
	// common.ErrTransactionFailed. Cancelling ctx stops waiting but does not
	// withdraw the write.
	Confirm(ctx context.Context) error
}

// Connector produces Clients bound to a signing identity.
type Connector interface {
	Bind(ctx context.Context, signer keys.Signer) (Client, error)
	Close() error
}
