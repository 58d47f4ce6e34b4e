package govclient

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Client talks to the governance deployment over JSON-RPC: it relays
// governor calls through proxy identities, materializes proxies via the
// on-chain registry, and serves the chain readings the relay needs. All
// reads retry transient failures with bounded exponential backoff.
type Client struct {
	eth     *ethclient.Client
	key     *ecdsa.PrivateKey
	account common.Address
	chainID *big.Int

	governor  common.Address
	registry  common.Address
	registrar common.Address

	logger *zap.Logger

	// Cumulative gas spent on transactions this client has sent, read by
	// the refund meter around batched relays.
	mu       sync.Mutex
	gasSpent uint64
}

// Dial connects to rpcURL and prepares the client for sending from key.
func Dial(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, governor, registry, registrar common.Address, logger *zap.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	return &Client{
		eth:       eth,
		key:       key,
		account:   crypto.PubkeyToAddress(key.PublicKey),
		chainID:   chainID,
		governor:  governor,
		registry:  registry,
		registrar: registrar,
		logger:    logger,
	}, nil
}

// ChainID returns the connected chain's id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Account returns the relaying account address; it doubles as the refund
// pool holder.
func (c *Client) Account() common.Address {
	return c.account
}

// Close tears down the RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// BlockNumber returns the current head block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return retryValue(ctx, func() (uint64, error) {
		return c.eth.BlockNumber(ctx)
	})
}

// BaseFee returns the current base fee per gas.
func (c *Client) BaseFee(ctx context.Context) (*big.Int, error) {
	return retryValue(ctx, func() (*big.Int, error) {
		header, err := c.eth.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, err
		}
		if header.BaseFee == nil {
			return big.NewInt(0), nil
		}
		return header.BaseFee, nil
	})
}

// GasPrice returns the suggested effective gas price.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return retryValue(ctx, func() (*big.Int, error) {
		return c.eth.SuggestGasPrice(ctx)
	})
}

// Spent returns the cumulative gas units consumed by transactions this
// client has sent.
func (c *Client) Spent(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gasSpent, nil
}

// Balance returns the refund pool balance (the relay account's balance).
func (c *Client) Balance(ctx context.Context) (*big.Int, error) {
	return retryValue(ctx, func() (*big.Int, error) {
		return c.eth.BalanceAt(ctx, c.account, nil)
	})
}

// Transfer sends amount wei from the pool to recipient.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	_, err := c.send(ctx, to, amount, nil)
	return err
}

// call performs a read-only contract call with retries.
func (c *Client) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return retryValue(ctx, func() ([]byte, error) {
		return c.eth.CallContract(ctx, ethereum.CallMsg{
			From: c.account,
			To:   &to,
			Data: data,
		}, nil)
	})
}

// send signs, submits, and waits out a transaction, accumulating its gas
// into the gauge.
func (c *Client) send(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.account)
	if err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	tipCap, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tip cap: %w", err)
	}
	baseFee, err := c.BaseFee(ctx)
	if err != nil {
		return nil, err
	}
	// Double the base fee as headroom for the inclusion delay.
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(baseFee, big.NewInt(2)))

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:      c.account,
		To:        &to,
		Value:     value,
		Data:      data,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx, err := types.SignNewTx(c.key, types.LatestSignerForChainID(c.chainID), &types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	c.mu.Lock()
	c.gasSpent += receipt.GasUsed
	c.mu.Unlock()

	c.logger.Debug("transaction mined",
		zap.String("tx", tx.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return receipt, nil
}

// retryValue retries f with exponential backoff for transient RPC failures.
func retryValue[T any](ctx context.Context, f func() (T, error)) (T, error) {
	var out T
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
	), 4), ctx)

	err := backoff.Retry(func() error {
		var err error
		out, err = f()
		return err
	}, policy)
	return out, err
}
