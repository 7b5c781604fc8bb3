package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/logging"
)

// Backend names accepted by Dial.
const (
	BackendMemory   = "memory"
	BackendEthereum = "ethereum"
)

// Options selects and configures a ledger backend.
type Options struct {
	Backend         string
	RPCURL          string
	ContractAddress string
	ChainID         int64
	ConfirmTimeout  time.Duration
}

// Dial returns the Connector named by opts.Backend.
func Dial(ctx context.Context, opts Options, logger logging.Logger) (Connector, error) {
	switch opts.Backend {
	case BackendMemory, "":
		logger.Info(ctx, "using in-memory ledger")
		return NewMemoryLedger(), nil
	case BackendEthereum:
		logger.Info(ctx, "dialing ledger", "rpc", opts.RPCURL, "contract", opts.ContractAddress)
		return DialEth(ctx, opts.RPCURL, EthOptions{
			ContractAddress: opts.ContractAddress,
			ChainID:         opts.ChainID,
			ConfirmTimeout:  opts.ConfirmTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", opts.Backend)
	}
}
