package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrBadSignature is returned when signature recovery fails or yields an
// unusable signer.
var ErrBadSignature = errors.New("bad signature")

// NotDelegatedError reports a hop that is missing the required permission,
// or a chain that does not terminate at the real actor.
type NotDelegatedError struct {
	From       common.Address
	To         common.Address
	Permission Permission
}

func (e *NotDelegatedError) Error() string {
	return fmt.Sprintf("not delegated: %s -> %s lacks %s", e.From.Hex(), e.To.Hex(), e.Permission)
}

// TooManyRedelegationsError reports a hop whose redelegation ceiling cannot
// cover the remaining length of the chain.
type TooManyRedelegationsError struct {
	From common.Address
	To   common.Address
}

func (e *TooManyRedelegationsError) Error() string {
	return fmt.Sprintf("too many redelegations: %s -> %s", e.From.Hex(), e.To.Hex())
}

// NotValidYetError reports a hop used before its window opens.
type NotValidYetError struct {
	From      common.Address
	To        common.Address
	ValidFrom uint64
}

func (e *NotValidYetError) Error() string {
	return fmt.Sprintf("delegation not valid yet: %s -> %s (valid from %d)", e.From.Hex(), e.To.Hex(), e.ValidFrom)
}

// NotValidAnymoreError reports a hop used after its window closed.
type NotValidAnymoreError struct {
	From       common.Address
	To         common.Address
	ValidUntil uint64
}

func (e *NotValidAnymoreError) Error() string {
	return fmt.Sprintf("delegation not valid anymore: %s -> %s (valid until %d)", e.From.Hex(), e.To.Hex(), e.ValidUntil)
}

// TooEarlyError reports a hop restricted to the closing window of a vote
// that was used while the deadline was still too far away.
type TooEarlyError struct {
	From   common.Address
	To     common.Address
	Margin uint16
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("too early: %s -> %s only valid within %d blocks of the deadline", e.From.Hex(), e.To.Hex(), e.Margin)
}

// InvalidCustomRuleError reports an external rule hook that rejected the
// action or misbehaved (wrong sentinel, call failure).
type InvalidCustomRuleError struct {
	From common.Address
	To   common.Address
	Rule common.Address
}

func (e *InvalidCustomRuleError) Error() string {
	return fmt.Sprintf("invalid custom rule: %s -> %s (rule %s)", e.From.Hex(), e.To.Hex(), e.Rule.Hex())
}

// ProposalNotAuthorizedError is the propose ordering caveat made explicit:
// the proposal was already created on the governor when authorization
// failed, so the id is carried alongside the validation error.
type ProposalNotAuthorizedError struct {
	ProposalID *big.Int
	Err        error
}

func (e *ProposalNotAuthorizedError) Error() string {
	return fmt.Sprintf("proposal %s created but proposer not authorized: %v", e.ProposalID, e.Err)
}

func (e *ProposalNotAuthorizedError) Unwrap() error {
	return e.Err
}
