package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskledger/internal/client/ledger"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Mutation policies for overlapping task writes.
const (
	// PolicyQueue makes a mutation wait until the one in flight finishes.
	PolicyQueue = "queue"
	// PolicyReject fails a mutation with common.ErrBusy while another runs.
	PolicyReject = "reject"
)

// DefaultFetchConcurrency bounds parallel getTask calls during Refresh.
const DefaultFetchConcurrency = 4

// TaskService keeps a cached, ordered view of the ledger's tasks.
//
// Contract:
//   - Refresh: re-read the whole ledger and replace the view; on failure the
//     previous view stays in place.
//   - Add/Toggle/Update/Delete: write, wait for confirmation, then Refresh.
//     The view never changes before the ledger confirms.
//   - Bind: switch to another ledger client (nil to unbind) and drop the view.
//
// Mutations run one at a time.
type TaskService interface {
	Bind(client ledger.Client)
	Refresh(ctx context.Context) ([]models.Task, error)
	Add(ctx context.Context, content string) error
	Toggle(ctx context.Context, id uint64) error
	Update(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error

	Tasks() []models.Task
	Count() int
	Flags() models.Flags
}

// TaskOptions tunes a TaskService.
type TaskOptions struct {
	FetchConcurrency int
	MutationPolicy   string
}

type taskService struct {
	logger           logging.Logger
	fetchConcurrency int
	reject           bool
	// write admits one mutation at a time
	write *semaphore.Weighted

	mu      sync.RWMutex
	client  ledger.Client
	tasks   []models.Task
	loading int
	adding  bool
	update  bool
}

// NewTaskService returns an unbound TaskService.
func NewTaskService(opts TaskOptions, logger logging.Logger) TaskService {
	n := opts.FetchConcurrency
	if n <= 0 {
		n = DefaultFetchConcurrency
	}
	return &taskService{
		logger:           logger,
		fetchConcurrency: n,
		reject:           opts.MutationPolicy == PolicyReject,
		write:            semaphore.NewWeighted(1),
		tasks:            []models.Task{},
	}
}

func (s *taskService) Bind(client ledger.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
	s.tasks = []models.Task{}
}

func (s *taskService) bound() ledger.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

func (s *taskService) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *taskService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *taskService) Flags() models.Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Flags{Loading: s.loading > 0, IsAdding: s.adding, IsUpdating: s.update}
}

// Refresh reads taskCount and then every getTask(i) into a slice indexed by
// position. The cached view is replaced only when every read succeeded.
func (s *taskService) Refresh(ctx context.Context) ([]models.Task, error) {
	client := s.bound()
	if client == nil {
		return []models.Task{}, nil
	}

	s.setLoading(1)
	defer s.setLoading(-1)

	tasks, err := s.fetch(ctx, client)
	if err != nil {
		s.logger.Error(ctx, "refresh failed", "error", err)
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.mu.Lock()
	// a Bind while fetching makes this result stale
	stale := s.client != client
	if !stale {
		s.tasks = tasks
	}
	s.mu.Unlock()

	if stale {
		s.logger.Debug(ctx, "refresh result dropped after rebind")
		return []models.Task{}, nil
	}

	s.logger.Debug(ctx, "refreshed", "count", len(tasks))
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

func (s *taskService) fetch(ctx context.Context, client ledger.Client) ([]models.Task, error) {
	count, err := client.Count(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for i := range tasks {
		g.Go(func() error {
			t, err := client.Get(gctx, uint64(i))
			if err != nil {
				return err
			}
			tasks[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *taskService) setLoading(delta int) {
	s.mu.Lock()
	s.loading += delta
	s.mu.Unlock()
}

func (s *taskService) Add(ctx context.Context, content string) error {
	content, err := validContent(content)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "add", &s.adding, func(c ledger.Client) (ledger.Transaction, error) {
		return c.Add(ctx, content)
	})
}

func (s *taskService) Toggle(ctx context.Context, id uint64) error {
	return s.mutate(ctx, fmt.Sprintf("toggle %d", id), &s.update, func(c ledger.Client) (ledger.Transaction, error) {
		return c.Toggle(ctx, id)
	})
}

func (s *taskService) Update(ctx context.Context, id uint64, content string) error {
	content, err := validContent(content)
	if err != nil {
		return err
	}
	return s.mutate(ctx, fmt.Sprintf("update %d", id), &s.update, func(c ledger.Client) (ledger.Transaction, error) {
		return c.Update(ctx, id, content)
	})
}

func (s *taskService) Delete(ctx context.Context, id uint64) error {
	return s.mutate(ctx, fmt.Sprintf("delete %d", id), &s.update, func(c ledger.Client) (ledger.Transaction, error) {
		return c.Delete(ctx, id)
	})
}

// mutate runs one write -> confirm -> refresh cycle while holding the write
// slot. flag points at the in-progress field raised for the duration.
//
// The client is read after the slot is held: a queued write goes out under
// whatever identity is bound when its turn comes.
func (s *taskService) mutate(ctx context.Context, op string, flag *bool, write func(ledger.Client) (ledger.Transaction, error)) error {
	if s.bound() == nil {
		return fmt.Errorf("%s: %w", op, common.ErrDisconnected)
	}

	if s.reject {
		if !s.write.TryAcquire(1) {
			return fmt.Errorf("%s: %w", op, common.ErrBusy)
		}
	} else if err := s.write.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer s.write.Release(1)

	client := s.bound()
	if client == nil {
		return fmt.Errorf("%s: %w", op, common.ErrDisconnected)
	}

	s.setFlag(flag, true)
	defer s.setFlag(flag, false)

	tx, err := write(client)
	if err != nil {
		s.logger.Error(ctx, "ledger write failed", "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Info(ctx, "waiting for confirmation", "op", op, "tx", tx.Hash())
	if err := tx.Confirm(ctx); err != nil {
		s.logger.Error(ctx, "confirmation failed", "op", op, "tx", tx.Hash(), "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *taskService) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
}

func validContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", common.ErrEmptyContent
	}
	return trimmed, nil
}
