// Package config loads runtime configuration for the taskledger CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string    database file
//	-l string    ledger backend (memory|ethereum)
//	-r string    Ethereum JSON-RPC URL
//	-k string    TodoList contract address
//	-chain int   chain id, 0 asks the node
//	-t int       confirmation timeout (seconds)
//	-f int       refresh fetch concurrency
//	-m string    mutation policy (queue|reject)
//	-log string  log backend (slog|zap)
//	-v string    log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "90s" or integer nanoseconds:
//
//	{
//	  "database_path": "/home/me/.taskledger/taskledger.db",
//	  "ledger_backend": "ethereum",
//	  "rpc_url": "http://127.0.0.1:8545",
//	  "contract_address": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
//	  "chain_id": 31337,
//	  "confirm_timeout": "2m",
//	  "fetch_concurrency": 4,
//	  "mutation_policy": "queue",
//	  "log_backend": "slog",
//	  "log_level": "warn"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
