package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Permission is a bitmask over the action categories a delegate may perform.
// New action kinds extend the mask; unused bits are reserved.
type Permission uint8

const (
	PermissionVote    Permission = 0x01
	PermissionSign    Permission = 0x02
	PermissionPropose Permission = 0x04
)

// Has reports whether p grants every bit of required.
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

// String returns a short human-readable form, e.g. "vote|sign".
func (p Permission) String() string {
	if p == 0 {
		return "none"
	}
	var out string
	add := func(s string) {
		if out != "" {
			out += "|"
		}
		out += s
	}
	if p.Has(PermissionVote) {
		add("vote")
	}
	if p.Has(PermissionSign) {
		add("sign")
	}
	if p.Has(PermissionPropose) {
		add("propose")
	}
	return out
}

// Rules bounds what a delegate may do on behalf of a delegator. The zero
// value grants nothing, so a missing (delegator, delegate) edge is
// default-deny without any explicit bookkeeping.
type Rules struct {
	Permissions Permission `json:"permissions"`

	// MaxRedelegations is how many further hops this delegate may create
	// downstream before the chain must terminate.
	MaxRedelegations uint8 `json:"max_redelegations"`

	// NotValidBefore and NotValidAfter bound the edge in unix seconds.
	// NotValidAfter == 0 leaves the window open-ended.
	NotValidBefore uint64 `json:"not_valid_before"`
	NotValidAfter  uint64 `json:"not_valid_after"`

	// BlocksBeforeVoteCloses, when nonzero, only allows acting once the
	// pending action's deadline is within this many blocks.
	BlocksBeforeVoteCloses uint16 `json:"blocks_before_vote_closes"`

	// CustomRule is the address of an external rule hook consulted per hop;
	// the zero address means no extra check.
	CustomRule common.Address `json:"custom_rule"`
}

// IsZero reports whether r is the default-deny zero record.
func (r Rules) IsZero() bool {
	return r.Permissions == 0 &&
		r.MaxRedelegations == 0 &&
		r.NotValidBefore == 0 &&
		r.NotValidAfter == 0 &&
		r.BlocksBeforeVoteCloses == 0 &&
		r.CustomRule == (common.Address{})
}

// Authority is a caller-supplied chain of addresses proving a path of
// delegation from the root principal to the acting party. It is never
// stored; every invocation supplies its own.
type Authority []common.Address

// Root returns the asset-holding principal at the head of the chain.
func (a Authority) Root() common.Address {
	if len(a) == 0 {
		return common.Address{}
	}
	return a[0]
}

// Last returns the final hop of the chain.
func (a Authority) Last() common.Address {
	if len(a) == 0 {
		return common.Address{}
	}
	return a[len(a)-1]
}

// Strings renders the chain as hex addresses, mostly for events and logs.
func (a Authority) Strings() []string {
	out := make([]string, len(a))
	for i, addr := range a {
		out[i] = addr.Hex()
	}
	return out
}
