package events

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/relaylabs/delegation-relay/types"
)

// Event is anything the relay announces to external watchers.
type Event interface {
	// Kind is a stable machine-readable name, e.g. "proxy.created".
	Kind() string
}

// Envelope wraps an event with an id and emission time for delivery.
type Envelope struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	EmittedAt time.Time `json:"emitted_at"`
	Event     Event     `json:"event"`
}

// ProxyCreated announces a freshly materialized proxy identity.
type ProxyCreated struct {
	Owner common.Address `json:"owner"`
	Proxy common.Address `json:"proxy"`
}

func (ProxyCreated) Kind() string { return "proxy.created" }

// SubDelegation announces a delegation edge being set, with the full rules
// snapshot. Setting zero rules is a revocation and still emits.
type SubDelegation struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Rules types.Rules    `json:"rules"`
}

func (SubDelegation) Kind() string { return "delegation.set" }

// VoteCast announces a vote relayed for a principal, including the full
// authority chain that authorized it.
type VoteCast struct {
	Voter      common.Address  `json:"voter"`
	Authority  types.Authority `json:"authority"`
	ProposalID *big.Int        `json:"proposal_id"`
	Support    uint8           `json:"support"`
	Reason     string          `json:"reason,omitempty"`
}

func (VoteCast) Kind() string { return "vote.cast" }

// Signed announces a digest pre-approved for a proxy via a SIGN-permissioned
// chain.
type Signed struct {
	Signer    common.Address  `json:"signer"`
	Authority types.Authority `json:"authority"`
	Digest    common.Hash     `json:"digest"`
}

func (Signed) Kind() string { return "message.signed" }

// RefundIssued announces a batched-relay reimbursement attempt. Sent is
// false when the transfer failed; the batch itself is unaffected either way.
type RefundIssued struct {
	Recipient common.Address `json:"recipient"`
	Amount    *big.Int       `json:"amount"`
	Sent      bool           `json:"sent"`
}

func (RefundIssued) Kind() string { return "refund.issued" }

// Emitter publishes events to whoever is watching.
type Emitter interface {
	Emit(e Event)
}
