package govclient

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/relaylabs/delegation-relay/services"
)

const ruleABIJSON = `[
  {"type":"function","name":"validate","stateMutability":"view",
   "inputs":[{"name":"governor","type":"address"},{"name":"voter","type":"address"},{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"}],
   "outputs":[{"name":"","type":"bytes4"}]}
]`

var ruleABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(ruleABIJSON))
	if err != nil {
		panic("bad embedded abi: " + err.Error())
	}
	return parsed
}()

// contractRuleHook calls a rule contract's validate through the chain
// client. Any address resolves: the contract either returns the sentinel or
// the hop fails, so no allowlist is kept.
type contractRuleHook struct {
	client *Client
	addr   common.Address
}

// Validate performs the eth_call and returns the contract's 4-byte answer.
func (h *contractRuleHook) Validate(ctx context.Context, governor, signer common.Address, proposalID *big.Int, support uint8) ([4]byte, error) {
	data, err := ruleABI.Pack("validate", governor, signer, proposalID, support)
	if err != nil {
		return [4]byte{}, fmt.Errorf("failed to pack rule validate: %w", err)
	}

	ret, err := h.client.call(ctx, h.addr, data)
	if err != nil {
		return [4]byte{}, fmt.Errorf("rule call failed: %w", err)
	}
	unpacked, err := ruleABI.Unpack("validate", ret)
	if err != nil || len(unpacked) != 1 {
		return [4]byte{}, fmt.Errorf("failed to decode rule result: %w", err)
	}
	sentinel, ok := unpacked[0].([4]byte)
	if !ok {
		return [4]byte{}, fmt.Errorf("unexpected rule result type %T", unpacked[0])
	}
	return sentinel, nil
}

// HookResolver resolves every custom-rule address to an on-chain call
// through this client.
type HookResolver struct {
	client *Client
}

// NewHookResolver creates the on-chain rule resolver.
func NewHookResolver(client *Client) *HookResolver {
	return &HookResolver{client: client}
}

// Resolve returns a hook bound to addr.
func (r *HookResolver) Resolve(addr common.Address) (services.RuleHook, bool) {
	return &contractRuleHook{client: r.client, addr: addr}, true
}
