package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   database file
//	-l string   ledger backend (memory|ethereum)
//	-r string   Ethereum JSON-RPC URL
//	-k string   TodoList contract address
//	-chain int  chain id (0 = ask the node)
//	-t int      confirmation timeout in seconds
//	-f int      refresh fetch concurrency
//	-m string   mutation policy (queue|reject)
//	-log string log backend (slog|zap)
//	-v string   log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-r", "-k", "-chain", "-t", "-f", "-m", "-log", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database file")
	fs.StringVar(&cfg.LedgerBackend, "l", cfg.LedgerBackend, "ledger backend (memory|ethereum)")
	fs.StringVar(&cfg.RPCURL, "r", cfg.RPCURL, "Ethereum JSON-RPC URL")
	fs.StringVar(&cfg.ContractAddress, "k", cfg.ContractAddress, "TodoList contract address")
	fs.Int64Var(&cfg.ChainID, "chain", cfg.ChainID, "chain id (0 = ask the node)")
	confirmTimeout := fs.Int("t", int(cfg.ConfirmTimeout.Seconds()), "confirmation timeout (in seconds)")
	fs.IntVar(&cfg.FetchConcurrency, "f", cfg.FetchConcurrency, "parallel task reads during refresh")
	fs.StringVar(&cfg.MutationPolicy, "m", cfg.MutationPolicy, "overlapping write policy (queue|reject)")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ConfirmTimeout = time.Duration(*confirmTimeout) * time.Second
}
