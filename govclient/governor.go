package govclient

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Minimal ABI surfaces for the external collaborators. The relay never
// interprets governance semantics beyond these entry points.
const (
	governorABIJSON = `[
	  {"type":"function","name":"propose","stateMutability":"nonpayable",
	   "inputs":[{"name":"targets","type":"address[]"},{"name":"values","type":"uint256[]"},{"name":"signatures","type":"string[]"},{"name":"calldatas","type":"bytes[]"},{"name":"description","type":"string"}],
	   "outputs":[{"name":"","type":"uint256"}]},
	  {"type":"function","name":"castVote","stateMutability":"nonpayable",
	   "inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"}],
	   "outputs":[]},
	  {"type":"function","name":"castVoteWithReason","stateMutability":"nonpayable",
	   "inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"},{"name":"reason","type":"string"}],
	   "outputs":[]},
	  {"type":"function","name":"proposalDeadline","stateMutability":"view",
	   "inputs":[{"name":"proposalId","type":"uint256"}],
	   "outputs":[{"name":"","type":"uint256"}]}
	]`

	registryABIJSON = `[
	  {"type":"function","name":"create","stateMutability":"nonpayable",
	   "inputs":[{"name":"owner","type":"address"}],
	   "outputs":[{"name":"","type":"address"}]}
	]`

	registrarABIJSON = `[
	  {"type":"function","name":"setName","stateMutability":"nonpayable",
	   "inputs":[{"name":"addr","type":"address"},{"name":"name","type":"string"}],
	   "outputs":[]}
	]`
)

var (
	governorABI  = mustABI(governorABIJSON)
	registryABI  = mustABI(registryABIJSON)
	registrarABI = mustABI(registrarABIJSON)
)

func mustABI(j string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(j))
	if err != nil {
		panic("bad embedded abi: " + err.Error())
	}
	return parsed
}

// Propose submits a proposal through the proxy and returns the proposal id
// the governor assigned. The id is obtained by simulating the call first;
// the state-changing transaction follows with identical calldata.
func (c *Client) Propose(ctx context.Context, proxy common.Address, targets []common.Address, values []*big.Int, signatures []string, calldatas [][]byte, description string) (*big.Int, error) {
	data, err := governorABI.Pack("propose", targets, values, signatures, calldatas, description)
	if err != nil {
		return nil, fmt.Errorf("failed to pack propose: %w", err)
	}

	ret, err := c.call(ctx, proxy, data)
	if err != nil {
		return nil, fmt.Errorf("propose simulation failed: %w", err)
	}
	unpacked, err := governorABI.Unpack("propose", ret)
	if err != nil || len(unpacked) != 1 {
		return nil, fmt.Errorf("failed to decode proposal id: %w", err)
	}
	proposalID, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected proposal id type %T", unpacked[0])
	}

	if _, err := c.send(ctx, proxy, nil, data); err != nil {
		return nil, err
	}
	return proposalID, nil
}

// CastVote casts a vote through the proxy.
func (c *Client) CastVote(ctx context.Context, proxy common.Address, proposalID *big.Int, support uint8, reason string) error {
	var (
		data []byte
		err  error
	)
	if reason == "" {
		data, err = governorABI.Pack("castVote", proposalID, support)
	} else {
		data, err = governorABI.Pack("castVoteWithReason", proposalID, support, reason)
	}
	if err != nil {
		return fmt.Errorf("failed to pack vote: %w", err)
	}

	_, err = c.send(ctx, proxy, nil, data)
	return err
}

// ProposalDeadline reads the block at which voting closes.
func (c *Client) ProposalDeadline(ctx context.Context, proposalID *big.Int) (uint64, error) {
	data, err := governorABI.Pack("proposalDeadline", proposalID)
	if err != nil {
		return 0, fmt.Errorf("failed to pack proposalDeadline: %w", err)
	}

	ret, err := c.call(ctx, c.governor, data)
	if err != nil {
		return 0, fmt.Errorf("proposalDeadline call failed: %w", err)
	}
	unpacked, err := governorABI.Unpack("proposalDeadline", ret)
	if err != nil || len(unpacked) != 1 {
		return 0, fmt.Errorf("failed to decode proposal deadline: %w", err)
	}
	deadline, ok := unpacked[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected deadline type %T", unpacked[0])
	}
	return deadline.Uint64(), nil
}

// Deploy materializes the proxy for owner via the on-chain registry. The
// registry's create is content-addressed and idempotent, so re-deploying an
// existing proxy succeeds without effect.
func (c *Client) Deploy(ctx context.Context, owner, _ common.Address) error {
	data, err := registryABI.Pack("create", owner)
	if err != nil {
		return fmt.Errorf("failed to pack create: %w", err)
	}
	_, err = c.send(ctx, c.registry, nil, data)
	return err
}

// SetName registers a reverse-name record for the proxy.
func (c *Client) SetName(ctx context.Context, proxyAddr common.Address, name string) error {
	data, err := registrarABI.Pack("setName", proxyAddr, name)
	if err != nil {
		return fmt.Errorf("failed to pack setName: %w", err)
	}
	_, err = c.send(ctx, c.registrar, nil, data)
	return err
}
