package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/constants"
	"github.com/relaylabs/delegation-relay/events"
)

// RefundService reimburses relayers for batched vote relays out of a shared
// funding pool. Every input to the refund is clamped independently (base
// fee, gas used, and the final amount against the pool balance) so network
// pricing spikes can never drain the pool.
type RefundService struct {
	pool    RefundPool
	chain   ChainReader
	emitter events.Emitter
	logger  *zap.Logger
}

// NewRefundService creates the refund meter.
func NewRefundService(pool RefundPool, chain ChainReader, emitter events.Emitter, logger *zap.Logger) *RefundService {
	return &RefundService{
		pool:    pool,
		chain:   chain,
		emitter: emitter,
		logger:  logger,
	}
}

// Refund pays recipient for measuredGas units of batched-relay work,
// best-effort. A transfer failure is recorded on the emitted event but never
// returned as an error; an empty pool is a silent no-op.
func (s *RefundService) Refund(ctx context.Context, recipient common.Address, measuredGas uint64) error {
	balance, err := s.pool.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to read refund pool balance: %w", err)
	}
	if balance.Sign() == 0 {
		return nil
	}

	gasUsed := measuredGas + constants.RefundBaseGas
	if gasUsed > constants.MaxRefundGasUsed {
		gasUsed = constants.MaxRefundGasUsed
	}

	baseFee, err := s.chain.BaseFee(ctx)
	if err != nil {
		return fmt.Errorf("failed to read base fee: %w", err)
	}
	cappedBaseFee := bigMin(baseFee, big.NewInt(constants.MaxRefundBaseFee))

	gasPrice, err := s.chain.GasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to read gas price: %w", err)
	}
	priceCeiling := new(big.Int).Add(cappedBaseFee, big.NewInt(constants.MaxRefundPriorityFee))
	unitPrice := bigMin(gasPrice, priceCeiling)

	amount := new(big.Int).Mul(unitPrice, new(big.Int).SetUint64(gasUsed))
	amount = bigMin(amount, balance)

	sent := true
	if err := s.pool.Transfer(ctx, recipient, amount); err != nil {
		sent = false
		s.logger.Warn("refund transfer failed",
			zap.String("recipient", recipient.Hex()),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
	}

	s.emitter.Emit(events.RefundIssued{Recipient: recipient, Amount: amount, Sent: sent})
	return nil
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
