package ledger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/rpc"
)

// revertErrorCode is the JSON-RPC error code nodes use for execution reverted.
const revertErrorCode = 3

// mapError classifies a transport or contract error. Reverts map to revertErr
// (common.ErrNotFound for reads, common.ErrUnauthorized for writes).
// Cancellation is passed through so callers can tell it from ledger failures.
func mapError(op string, err error, revertErr error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%s: %w: %v", op, common.ErrNetworkUnavailable, err)
	}
	if isRevert(err) {
		return fmt.Errorf("%s: %w: %v", op, revertErr, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isRevert reports whether err is a contract revert. Nodes that report a
// revert without code 3 are caught by the message check.
func isRevert(err error) bool {
	if errors.Is(err, vm.ErrExecutionReverted) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), vm.ErrExecutionReverted.Error())
}
