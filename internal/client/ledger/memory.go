package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

type memoryTask struct {
	task  models.Task
	owner gethcommon.Address
}

// MemoryLedger is an in-process ledger. Ids are assigned monotonically and
// never reused; Get reads by position; writes to a task owned by another
// identity fail with common.ErrUnauthorized. Writes are applied on submit and
// confirm immediately.
type MemoryLedger struct {
	mu     sync.RWMutex
	tasks  []memoryTask
	nextID uint64
	seq    uint64
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Bind returns a Client writing as signer. A nil signer yields
// common.ErrDisconnected.
func (l *MemoryLedger) Bind(ctx context.Context, signer keys.Signer) (Client, error) {
	if signer == nil {
		return nil, common.ErrDisconnected
	}
	return &memoryClient{ledger: l, owner: signer.Address()}, nil
}

func (l *MemoryLedger) Close() error {
	return nil
}

func (l *MemoryLedger) count() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.tasks))
}

func (l *MemoryLedger) get(pos uint64) (models.Task, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if pos >= uint64(len(l.tasks)) {
		return models.Task{}, fmt.Errorf("task %d: %w", pos, common.ErrNotFound)
	}
	return l.tasks[pos].task, nil
}

// mutate applies fn to the task with the given id after an ownership check
// and returns a confirmed transaction.
func (l *MemoryLedger) mutate(owner gethcommon.Address, op string, id uint64, fn func(i int)) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.tasks {
		if l.tasks[i].task.ID != id {
			continue
		}
		if l.tasks[i].owner != owner {
			return nil, fmt.Errorf("%s task %d: %w", op, id, common.ErrUnauthorized)
		}
		fn(i)
		return l.receipt(op, id), nil
	}
	return nil, fmt.Errorf("%s task %d: %w", op, id, common.ErrNotFound)
}

func (l *MemoryLedger) add(owner gethcommon.Address, content string) Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.tasks = append(l.tasks, memoryTask{task: models.Task{ID: id, Content: content}, owner: owner})
	return l.receipt("add", id)
}

// receipt must be called with mu held.
func (l *MemoryLedger) receipt(op string, id uint64) Transaction {
	l.seq++
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s/%d/%d", op, id, l.seq)))
	return memoryTx{hash: "0x" + hex.EncodeToString(sum[:])}
}

type memoryTx struct {
	hash string
}

func (t memoryTx) Hash() string { return t.hash }

func (t memoryTx) Confirm(ctx context.Context) error {
	return ctx.Err()
}

type memoryClient struct {
	ledger *MemoryLedger
	owner  gethcommon.Address
}

func (c *memoryClient) Count(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.ledger.count(), nil
}

func (c *memoryClient) Get(ctx context.Context, id uint64) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	return c.ledger.get(id)
}

func (c *memoryClient) Add(ctx context.Context, content string) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.ledger.add(c.owner, content), nil
}

func (c *memoryClient) Update(ctx context.Context, id uint64, content string) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.ledger.mutate(c.owner, "update", id, func(i int) {
		c.ledger.tasks[i].task.Content = content
	})
}

func (c *memoryClient) Toggle(ctx context.Context, id uint64) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.ledger.mutate(c.owner, "toggle", id, func(i int) {
		c.ledger.tasks[i].task.Completed = !c.ledger.tasks[i].task.Completed
	})
}

func (c *memoryClient) Delete(ctx context.Context, id uint64) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.ledger.mutate(c.owner, "delete", id, func(i int) {
		c.ledger.tasks = append(c.ledger.tasks[:i], c.ledger.tasks[i+1:]...)
	})
}
