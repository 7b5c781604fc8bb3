package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/client/config"
	"github.com/dmitrijs2005/taskledger/internal/client/ledger"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/taskledger/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskledger/internal/client/services"
	"github.com/dmitrijs2005/taskledger/internal/client/session"
	"github.com/dmitrijs2005/taskledger/internal/client/storage"
	"github.com/dmitrijs2005/taskledger/internal/logging"
)

// bindTimeout bounds rebinding the ledger after an identity change.
const bindTimeout = 15 * time.Second

// sessionSource is the part of session.Manager the App reads.
type sessionSource interface {
	Current() *models.Session
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	connector   ledger.Connector
	sessions    sessionSource
	authService services.AuthService
	taskService services.TaskService
	reader      *bufio.Reader
	out         io.Writer

	// bindErr holds the last failed ledger bind for the current session
	bindMu  sync.Mutex
	bindErr error
}

// NewApp opens the local database, dials the ledger and wires the services.
// The ledger client is rebound on every session change.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	connector, err := ledger.Dial(ctx, c.LedgerOptions(), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := accounts.NewStore(db)
	manager := session.NewManager(metadata.NewSQLiteRepository(db), store, logger)

	a := &App{
		config:      c,
		logger:      logger,
		db:          db,
		connector:   connector,
		sessions:    manager,
		authService: services.NewAuthService(store, manager, logger),
		taskService: services.NewTaskService(services.TaskOptions{
			FetchConcurrency: c.FetchConcurrency,
			MutationPolicy:   c.MutationPolicy,
		}, logger),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	manager.OnChange(a.onSessionChange)
	return a, nil
}

// onSessionChange points the task service at the new identity, or unbinds it
// when signed out. A failed bind is kept and reported by ensureLedger.
func (a *App) onSessionChange(s *models.Session) {
	a.bindMu.Lock()
	defer a.bindMu.Unlock()
	a.bindErr = nil

	if !s.CanSign() {
		a.taskService.Bind(nil)
		return
	}
	a.bindErr = a.bindLedger(s)
}

func (a *App) bindLedger(s *models.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), bindTimeout)
	defer cancel()

	client, err := a.connector.Bind(ctx, s.Signer)
	if err != nil {
		a.logger.Error(ctx, "ledger bind failed", "address", s.Address, "error", err)
		a.taskService.Bind(nil)
		return fmt.Errorf("connect ledger: %w", err)
	}
	a.taskService.Bind(client)
	return nil
}

// ensureLedger retries a bind that failed for the current session and
// returns its error if it fails again.
func (a *App) ensureLedger() error {
	a.bindMu.Lock()
	defer a.bindMu.Unlock()
	if a.bindErr == nil {
		return nil
	}
	s := a.sessions.Current()
	if !s.CanSign() {
		a.bindErr = nil
		return nil
	}
	a.bindErr = a.bindLedger(s)
	return a.bindErr
}

// Run restores the previous session and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the ledger connection and the database.
func (a *App) Close() error {
	return errors.Join(a.connector.Close(), a.db.Close())
}

func (a *App) isLoggedIn() bool {
	return a.sessions != nil && a.sessions.Current() != nil
}
