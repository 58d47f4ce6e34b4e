package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/proxy"
	"github.com/relaylabs/delegation-relay/store"
	"github.com/relaylabs/delegation-relay/types"
)

// DispatchService executes authorized actions against the governor through
// the root principal's proxy: proposals, votes (direct, by signature, and
// batched), and delegation-edge writes.
type DispatchService struct {
	authority  *AuthorityService
	signatures *SignatureService
	refunds    *RefundService
	store      store.Store
	proxies    *proxy.Manager
	governor   Governor
	gauge      GasGauge
	emitter    events.Emitter
	logger     *zap.Logger
}

// NewDispatchService wires the dispatcher.
func NewDispatchService(authority *AuthorityService, signatures *SignatureService, refunds *RefundService, s store.Store, proxies *proxy.Manager, governor Governor, gauge GasGauge, emitter events.Emitter, logger *zap.Logger) *DispatchService {
	return &DispatchService{
		authority:  authority,
		signatures: signatures,
		refunds:    refunds,
		store:      s,
		proxies:    proxies,
		governor:   governor,
		gauge:      gauge,
		emitter:    emitter,
		logger:     logger,
	}
}

// SubDelegate sets the (delegator, delegate) edge. The delegator is the
// authenticated caller; its proxy is materialized lazily on first write.
func (s *DispatchService) SubDelegate(ctx context.Context, delegator, delegate common.Address, rules types.Rules) error {
	if _, err := s.proxies.Create(ctx, delegator); err != nil {
		return err
	}
	if err := s.store.SetRules(ctx, delegator, delegate, rules); err != nil {
		return err
	}
	s.emitter.Emit(events.SubDelegation{From: delegator, To: delegate, Rules: rules})
	return nil
}

// SubDelegateBatched sets several outgoing edges for one delegator, with
// per-index rules. One event per edge.
func (s *DispatchService) SubDelegateBatched(ctx context.Context, delegator common.Address, delegates []common.Address, rules []types.Rules) error {
	if len(delegates) != len(rules) {
		return fmt.Errorf("delegates and rules length mismatch: %d != %d", len(delegates), len(rules))
	}
	if _, err := s.proxies.Create(ctx, delegator); err != nil {
		return err
	}
	for i, delegate := range delegates {
		if err := s.store.SetRules(ctx, delegator, delegate, rules[i]); err != nil {
			return err
		}
		s.emitter.Emit(events.SubDelegation{From: delegator, To: delegate, Rules: rules[i]})
	}
	return nil
}

// Propose submits a proposal through the chain root's proxy, then validates
// PROPOSE authority against the freshly assigned proposal id. The ordering
// is deliberate: a custom rule may need to inspect the created proposal, so
// creation precedes authorization and is not rolled back when authorization
// fails; the returned error carries the proposal id in that case.
func (s *DispatchService) Propose(ctx context.Context, sender common.Address, authority types.Authority, targets []common.Address, values []*big.Int, signatures []string, calldatas [][]byte, description string) (*big.Int, error) {
	proxyAddr, err := s.proxies.Create(ctx, authority.Root())
	if err != nil {
		return nil, err
	}

	proposalID, err := s.governor.Propose(ctx, proxyAddr, targets, values, signatures, calldatas, description)
	if err != nil {
		return nil, fmt.Errorf("governor rejected proposal: %w", err)
	}

	if err := s.authority.Validate(ctx, sender, authority, types.PermissionPropose, proposalID, 0); err != nil {
		return nil, &types.ProposalNotAuthorizedError{ProposalID: proposalID, Err: err}
	}

	s.logger.Info("proposal submitted",
		zap.String("proposer", sender.Hex()),
		zap.String("proxy", proxyAddr.Hex()),
		zap.String("proposal_id", proposalID.String()),
	)
	return proposalID, nil
}

// CastVote validates VOTE authority and casts through the root's proxy.
func (s *DispatchService) CastVote(ctx context.Context, sender common.Address, authority types.Authority, proposalID *big.Int, support uint8) error {
	return s.CastVoteWithReason(ctx, sender, authority, proposalID, support, "")
}

// CastVoteWithReason is CastVote with free-text rationale.
func (s *DispatchService) CastVoteWithReason(ctx context.Context, sender common.Address, authority types.Authority, proposalID *big.Int, support uint8, reason string) error {
	if err := s.authority.Validate(ctx, sender, authority, types.PermissionVote, proposalID, support); err != nil {
		return err
	}
	return s.castValidated(ctx, sender, authority, proposalID, support, reason)
}

// CastVoteBySig derives the acting signer from a detached signature instead
// of the caller identity, enabling gas-sponsored relaying.
func (s *DispatchService) CastVoteBySig(ctx context.Context, authority types.Authority, proposalID *big.Int, support uint8, signature []byte) error {
	signer, err := s.signatures.RecoverVoter(proposalID, support, signature)
	if err != nil {
		return err
	}
	return s.CastVoteWithReason(ctx, signer, authority, proposalID, support, "")
}

// CastVotesWithReasonBatched relays one vote per authority chain against the
// same proposal and direction. Validation is all-or-nothing: every chain is
// validated before any vote is dispatched, so a single bad chain aborts the
// batch with no votes recorded.
func (s *DispatchService) CastVotesWithReasonBatched(ctx context.Context, sender common.Address, authorities []types.Authority, proposalID *big.Int, support uint8, reason string) error {
	for i, authority := range authorities {
		if err := s.authority.Validate(ctx, sender, authority, types.PermissionVote, proposalID, support); err != nil {
			return fmt.Errorf("chain %d failed validation: %w", i, err)
		}
	}

	for i, authority := range authorities {
		if err := s.castValidated(ctx, sender, authority, proposalID, support, reason); err != nil {
			return fmt.Errorf("chain %d failed to cast: %w", i, err)
		}
	}
	return nil
}

// CastRefundableVotesWithReasonBatched is the batched relay wrapped in the
// gas-refund meter: on success the relayer is reimbursed from the pool,
// bounded by the refund caps. Refund-transfer failure never fails the batch.
func (s *DispatchService) CastRefundableVotesWithReasonBatched(ctx context.Context, sender common.Address, authorities []types.Authority, proposalID *big.Int, support uint8, reason string) error {
	startGas, err := s.gauge.Spent(ctx)
	if err != nil {
		return fmt.Errorf("failed to read gas gauge: %w", err)
	}

	if err := s.CastVotesWithReasonBatched(ctx, sender, authorities, proposalID, support, reason); err != nil {
		return err
	}

	endGas, err := s.gauge.Spent(ctx)
	if err != nil {
		return fmt.Errorf("failed to read gas gauge: %w", err)
	}

	if err := s.refunds.Refund(ctx, sender, endGas-startGas); err != nil {
		// The batch already succeeded; refunding is best-effort.
		s.logger.Warn("refund failed after batch", zap.Error(err))
	}
	return nil
}

func (s *DispatchService) castValidated(ctx context.Context, sender common.Address, authority types.Authority, proposalID *big.Int, support uint8, reason string) error {
	proxyAddr, err := s.proxies.Create(ctx, authority.Root())
	if err != nil {
		return err
	}
	if err := s.governor.CastVote(ctx, proxyAddr, proposalID, support, reason); err != nil {
		return fmt.Errorf("governor rejected vote: %w", err)
	}
	s.emitter.Emit(events.VoteCast{
		Voter:      sender,
		Authority:  authority,
		ProposalID: proposalID,
		Support:    support,
		Reason:     reason,
	})
	return nil
}
