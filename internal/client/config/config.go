package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/client/ledger"
	"github.com/dmitrijs2005/taskledger/internal/filex"
)

// Config holds runtime settings for the taskledger CLI.
//
// Fields:
//   - DatabasePath: SQLite file holding accounts and the persisted session.
//   - LedgerBackend: "memory" or "ethereum".
//   - RPCURL, ContractAddress, ChainID: Ethereum endpoint and TodoList
//     contract. ChainID 0 asks the node.
//   - ConfirmTimeout: how long to wait for a write to be mined.
//   - FetchConcurrency: parallel getTask calls during refresh.
//   - MutationPolicy: "queue" or "reject" for overlapping writes.
//   - LogBackend, LogLevel: "slog" or "zap"; debug, info, warn, error.
type Config struct {
	DatabasePath     string
	LedgerBackend    string
	RPCURL           string
	ContractAddress  string
	ChainID          int64
	ConfirmTimeout   time.Duration
	FetchConcurrency int
	MutationPolicy   string
	LogBackend       string
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = filepath.Join(filex.DefaultDataDir(), "taskledger.db")
	c.LedgerBackend = ledger.BackendMemory
	c.RPCURL = "http://127.0.0.1:8545"
	c.ContractAddress = ""
	c.ChainID = 0
	c.ConfirmTimeout = 2 * time.Minute
	c.FetchConcurrency = 4
	c.MutationPolicy = "queue"
	c.LogBackend = "slog"
	c.LogLevel = "warn"
}

// LedgerOptions returns the subset of c used to dial the ledger.
func (c *Config) LedgerOptions() ledger.Options {
	return ledger.Options{
		Backend:         c.LedgerBackend,
		RPCURL:          c.RPCURL,
		ContractAddress: c.ContractAddress,
		ChainID:         c.ChainID,
		ConfirmTimeout:  c.ConfirmTimeout,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
