package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is what the contract binding needs from an Ethereum node.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

var errInvalidContractAddress = errors.New("invalid contract address")

// EthOptions configures an EthConnector.
type EthOptions struct {
	ContractAddress string
	// ChainID is queried from the node when zero.
	ChainID int64
	// ConfirmTimeout bounds Transaction.Confirm; zero means wait for ctx.
	ConfirmTimeout time.Duration
}

// EthConnector binds TodoList contract clients to signing identities.
type EthConnector struct {
	backend Backend
	closer  func()
	address gethcommon.Address
	abi     abi.ABI
	opts    EthOptions
	logger  logging.Logger

	mu      sync.Mutex
	chainID *big.Int
}

// DialEth connects to the JSON-RPC endpoint at rpcURL.
func DialEth(ctx context.Context, rpcURL string, opts EthOptions, logger logging.Logger) (*EthConnector, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, mapError("dial "+rpcURL, err, common.ErrNetworkUnavailable)
	}
	c, err := NewEthConnector(client, opts, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	c.closer = client.Close
	return c, nil
}

// NewEthConnector wraps an existing backend.
func NewEthConnector(backend Backend, opts EthOptions, logger logging.Logger) (*EthConnector, error) {
	if !gethcommon.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("%w: %q", errInvalidContractAddress, opts.ContractAddress)
	}
	parsed, err := ParseTodoListABI()
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	c := &EthConnector{
		backend: backend,
		address: gethcommon.HexToAddress(opts.ContractAddress),
		abi:     parsed,
		opts:    opts,
		logger:  logger,
	}
	if opts.ChainID != 0 {
		c.chainID = big.NewInt(opts.ChainID)
	}
	return c, nil
}

// Bind returns a Client signing with signer.
func (c *EthConnector) Bind(ctx context.Context, signer keys.Signer) (Client, error) {
	if signer == nil {
		return nil, common.ErrDisconnected
	}
	chainID, err := c.chain(ctx)
	if err != nil {
		return nil, err
	}
	return &ethClient{
		contract: bind.NewBoundContract(c.address, c.abi, c.backend, c.backend, c.backend),
		backend:  c.backend,
		signer:   signer,
		chainID:  chainID,
		timeout:  c.opts.ConfirmTimeout,
		logger:   c.logger.With("address", signer.Address().Hex()),
	}, nil
}

func (c *EthConnector) Close() error {
	if c.closer != nil {
		c.closer()
	}
	return nil
}

func (c *EthConnector) chain(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID != nil {
		return c.chainID, nil
	}
	r, ok := c.backend.(chainIDReader)
	if !ok {
		return nil, errors.New("chain id not configured and backend cannot report it")
	}
	id, err := r.ChainID(ctx)
	if err != nil {
		return nil, mapError("chain id", err, common.ErrNetworkUnavailable)
	}
	c.chainID = id
	return id, nil
}

type ethClient struct {
	contract *bind.BoundContract
	backend  Backend
	signer   keys.Signer
	chainID  *big.Int
	timeout  time.Duration
	logger   logging.Logger
}

func (c *ethClient) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: c.signer.Address()}
}

func (c *ethClient) Count(ctx context.Context) (uint64, error) {
	var out []any
	if err := c.contract.Call(c.callOpts(ctx), &out, methodTaskCount); err != nil {
		return 0, mapError(methodTaskCount, err, common.ErrNotFound)
	}
	n := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if !n.IsUint64() {
		return 0, fmt.Errorf("%s: count %s out of range", methodTaskCount, n)
	}
	return n.Uint64(), nil
}

func (c *ethClient) Get(ctx context.Context, id uint64) (models.Task, error) {
	var out []any
	if err := c.contract.Call(c.callOpts(ctx), &out, methodGetTask, new(big.Int).SetUint64(id)); err != nil {
		return models.Task{}, mapError(fmt.Sprintf("%s(%d)", methodGetTask, id), err, common.ErrNotFound)
	}
	t := *abi.ConvertType(out[0], new(taskTuple)).(*taskTuple)
	return models.Task{ID: t.Id.Uint64(), Content: t.Content, Completed: t.Completed}, nil
}

func (c *ethClient) Add(ctx context.Context, content string) (Transaction, error) {
	return c.transact(ctx, methodAddTask, content)
}

func (c *ethClient) Update(ctx context.Context, id uint64, content string) (Transaction, error) {
	return c.transact(ctx, methodUpdate, new(big.Int).SetUint64(id), content)
}

func (c *ethClient) Toggle(ctx context.Context, id uint64) (Transaction, error) {
	return c.transact(ctx, methodToggle, new(big.Int).SetUint64(id))
}

func (c *ethClient) Delete(ctx context.Context, id uint64) (Transaction, error) {
	return c.transact(ctx, methodDelete, new(big.Int).SetUint64(id))
}

func (c *ethClient) transact(ctx context.Context, method string, args ...any) (Transaction, error) {
	opts := &bind.TransactOpts{
		From:    c.signer.Address(),
		Context: ctx,
		Signer: func(from gethcommon.Address, tx *types.Transaction) (*types.Transaction, error) {
			if from != c.signer.Address() {
				return nil, bind.ErrNotAuthorized
			}
			return c.signer.SignTx(tx, c.chainID)
		},
	}
	tx, err := c.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, mapError(method, err, common.ErrUnauthorized)
	}
	c.logger.Debug(ctx, "transaction submitted", "method", method, "tx", tx.Hash().Hex())
	return &ethTx{tx: tx, backend: c.backend, timeout: c.timeout}, nil
}

type ethTx struct {
	tx      *types.Transaction
	backend bind.DeployBackend
	timeout time.Duration
}

func (t *ethTx) Hash() string {
	return t.tx.Hash().Hex()
}

func (t *ethTx) Confirm(ctx context.Context) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	receipt, err := bind.WaitMined(ctx, t.backend, t.tx)
	if err != nil {
		return fmt.Errorf("%w: tx %s: %w", common.ErrTransactionFailed, t.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: tx %s reverted in block %v", common.ErrTransactionFailed, t.Hash(), receipt.BlockNumber)
	}
	return nil
}
