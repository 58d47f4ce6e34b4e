package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/relaylabs/delegation-relay/types"
)

// Store is the durable state surface of the relay: delegation edges keyed by
// (delegator, delegate) and signature approvals keyed by (proxy, digest).
// Implementations must return the zero-valued Rules for any edge never set,
// so unset pairs are default-deny without a sentinel error.
type Store interface {
	// GetRules returns the rules for the (delegator, delegate) edge, or the
	// zero value when none were ever set.
	GetRules(ctx context.Context, delegator, delegate common.Address) (types.Rules, error)

	// SetRules overwrites the (delegator, delegate) edge. Writing the zero
	// value is the revocation mechanism; edges are never deleted.
	SetRules(ctx context.Context, delegator, delegate common.Address, rules types.Rules) error

	// ApproveSignature marks digest as approved for the proxy. Append-only,
	// no expiry.
	ApproveSignature(ctx context.Context, proxy common.Address, digest common.Hash) error

	// IsSignatureApproved reports whether digest was previously approved for
	// the proxy.
	IsSignatureApproved(ctx context.Context, proxy common.Address, digest common.Hash) (bool, error)
}
