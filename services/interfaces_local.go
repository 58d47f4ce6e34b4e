package services

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Governor is the external governance collaborator. Proposal and voting
// semantics live entirely on its side; the relay only submits actions
// through a proxy identity and reads deadlines.
type Governor interface {
	// Propose submits a proposal through the given proxy and returns the
	// proposal id assigned by the governor.
	Propose(ctx context.Context, proxy common.Address, targets []common.Address, values []*big.Int, signatures []string, calldatas [][]byte, description string) (*big.Int, error)

	// CastVote casts a vote through the given proxy, optionally with a
	// free-text reason.
	CastVote(ctx context.Context, proxy common.Address, proposalID *big.Int, support uint8, reason string) error

	// ProposalDeadline returns the block at which voting on the proposal
	// closes.
	ProposalDeadline(ctx context.Context, proposalID *big.Int) (uint64, error)
}

// ChainReader exposes the chain-level readings the relay needs.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BaseFee(ctx context.Context) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
}

// RuleHook is a pluggable per-edge validator. Validate must return
// RuleValidSentinel for the hop to pass.
type RuleHook interface {
	Validate(ctx context.Context, governor, signer common.Address, proposalID *big.Int, support uint8) ([4]byte, error)
}

// HookResolver turns a stored custom-rule address into a callable hook.
type HookResolver interface {
	Resolve(addr common.Address) (RuleHook, bool)
}

// RefundPool is the shared balance batched-relay refunds draw from.
type RefundPool interface {
	Balance(ctx context.Context) (*big.Int, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error
}

// GasGauge reports the cumulative execution cost this relay has spent on
// external calls, in gas units. Batches snapshot it before and after.
type GasGauge interface {
	Spent(ctx context.Context) (uint64, error)
}

// Clock abstracts wall-clock time for the rule-window checks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production Clock.
var SystemClock Clock = systemClock{}
