package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/constants"
	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/mocks"
	"github.com/relaylabs/delegation-relay/services"
)

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func TestRefundEmptyPoolIsNoOp(t *testing.T) {
	pool := mocks.NewRefundPoolForTest(t)
	pool.EXPECT().Balance(gomock.Any()).Return(big.NewInt(0), nil)

	bus := events.NewBus(8, nil)
	watch, cancel := bus.Subscribe()
	defer cancel()

	svc := services.NewRefundService(pool, mocks.NewChainReaderForTest(t), bus, zap.NewNop())
	require.NoError(t, svc.Refund(context.Background(), addr(1), 50_000))

	// No transfer, no event.
	select {
	case env := <-watch:
		t.Fatalf("unexpected event %s", env.Kind)
	default:
	}
}

func TestRefundAmount(t *testing.T) {
	recipient := addr(1)
	hugeBalance := gwei(1_000_000_000)

	tests := []struct {
		name        string
		measuredGas uint64
		baseFee     *big.Int
		gasPrice    *big.Int
		balance     *big.Int
		want        *big.Int
	}{
		{
			name:        "cheap gas price wins",
			measuredGas: 64_000,
			baseFee:     gwei(100),
			gasPrice:    gwei(30),
			balance:     hugeBalance,
			// 30 gwei * (64k + base overhead)
			want: new(big.Int).Mul(gwei(30), big.NewInt(64_000+constants.RefundBaseGas)),
		},
		{
			name:        "priority fee capped",
			measuredGas: 64_000,
			baseFee:     gwei(100),
			gasPrice:    gwei(150),
			balance:     hugeBalance,
			// base fee + 2 gwei priority ceiling
			want: new(big.Int).Mul(gwei(102), big.NewInt(64_000+constants.RefundBaseGas)),
		},
		{
			name:        "base fee capped at 200 gwei",
			measuredGas: 64_000,
			baseFee:     gwei(500),
			gasPrice:    gwei(600),
			balance:     hugeBalance,
			want:        new(big.Int).Mul(gwei(202), big.NewInt(64_000+constants.RefundBaseGas)),
		},
		{
			name:        "gas units capped",
			measuredGas: 5_000_000,
			baseFee:     gwei(10),
			gasPrice:    gwei(10),
			balance:     hugeBalance,
			want:        new(big.Int).Mul(gwei(10), big.NewInt(constants.MaxRefundGasUsed)),
		},
		{
			name:        "never exceeds pool balance",
			measuredGas: 64_000,
			baseFee:     gwei(10),
			gasPrice:    gwei(10),
			balance:     big.NewInt(12345),
			want:        big.NewInt(12345),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := mocks.NewRefundPoolForTest(t)
			pool.EXPECT().Balance(gomock.Any()).Return(tt.balance, nil)
			pool.EXPECT().Transfer(gomock.Any(), recipient, tt.want).Return(nil)

			chain := mocks.NewChainReaderForTest(t)
			chain.EXPECT().BaseFee(gomock.Any()).Return(tt.baseFee, nil)
			chain.EXPECT().GasPrice(gomock.Any()).Return(tt.gasPrice, nil)

			bus := events.NewBus(8, nil)
			watch, cancel := bus.Subscribe()
			defer cancel()

			svc := services.NewRefundService(pool, chain, bus, zap.NewNop())
			require.NoError(t, svc.Refund(context.Background(), recipient, tt.measuredGas))

			env := <-watch
			issued, ok := env.Event.(events.RefundIssued)
			require.True(t, ok, "expected a refund event, got %s", env.Kind)
			assert.True(t, issued.Sent)
			assert.Zero(t, tt.want.Cmp(issued.Amount))
		})
	}
}

func TestRefundTransferFailureIsNotFatal(t *testing.T) {
	pool := mocks.NewRefundPoolForTest(t)
	pool.EXPECT().Balance(gomock.Any()).Return(gwei(1000), nil)
	pool.EXPECT().Transfer(gomock.Any(), addr(1), gomock.Any()).Return(errors.New("nonce too low"))

	chain := mocks.NewChainReaderForTest(t)
	chain.EXPECT().BaseFee(gomock.Any()).Return(gwei(10), nil)
	chain.EXPECT().GasPrice(gomock.Any()).Return(gwei(10), nil)

	bus := events.NewBus(8, nil)
	watch, cancel := bus.Subscribe()
	defer cancel()

	svc := services.NewRefundService(pool, chain, bus, zap.NewNop())
	require.NoError(t, svc.Refund(context.Background(), addr(1), 50_000))

	env := <-watch
	issued, ok := env.Event.(events.RefundIssued)
	require.True(t, ok)
	assert.False(t, issued.Sent, "failed transfer must be recorded on the event")
}
