package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/store"
	"github.com/relaylabs/delegation-relay/types"
)

// RuleValidSentinel is the value a custom rule hook must return for a hop to
// pass: the leading 4 bytes of the hash of its validate signature, matching
// the selector convention of on-chain rule contracts.
var RuleValidSentinel = ruleValidSentinel()

func ruleValidSentinel() [4]byte {
	var s [4]byte
	copy(s[:], crypto.Keccak256([]byte("validate(address,address,uint256,uint8)"))[:4])
	return s
}

// AuthorityService proves that an acting party is authorized to act for the
// root principal of a claimed delegation chain. It is read-only with respect
// to delegation state and re-runs in full on every action: rules can change
// between calls and the deadline-margin check is time-varying.
type AuthorityService struct {
	store    store.Store
	governor Governor
	chain    ChainReader
	hooks    HookResolver
	clock    Clock

	// governorAddr is handed to custom rule hooks so they can inspect the
	// proposal being acted on.
	governorAddr common.Address

	logger *zap.Logger
}

// NewAuthorityService creates the validator. hooks may be nil when no custom
// rules are deployed; clock defaults to the system clock.
func NewAuthorityService(s store.Store, governor Governor, chain ChainReader, hooks HookResolver, governorAddr common.Address, clock Clock, logger *zap.Logger) *AuthorityService {
	if clock == nil {
		clock = SystemClock
	}
	return &AuthorityService{
		store:        s,
		governor:     governor,
		chain:        chain,
		hooks:        hooks,
		clock:        clock,
		governorAddr: governorAddr,
		logger:       logger,
	}
}

// Validate succeeds silently iff sender is authorized to exercise the
// required permissions for the chain's root principal, walking every hop of
// the claimed authority chain. proposalID and support are contextual: the
// deadline-margin check reads the proposal's end block, and both are handed
// to custom rule hooks.
func (s *AuthorityService) Validate(ctx context.Context, sender common.Address, authority types.Authority, required types.Permission, proposalID *big.Int, support uint8) error {
	if len(authority) == 0 {
		return &types.NotDelegatedError{To: sender, Permission: required}
	}

	from := authority[0]

	// The root principal always holds all permissions over itself. Kept as
	// its own branch, separate from the chain walk below.
	if sender == from {
		return nil
	}

	// The proposal deadline is read at most once and reused for every hop,
	// so all hops see one consistent view within a validation pass.
	var (
		deadline       uint64
		deadlineLoaded bool
	)

	now := uint64(s.clock.Now().Unix())

	for i := 1; i < len(authority); i++ {
		to := authority[i]

		rules, err := s.store.GetRules(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to read rules for hop %s -> %s: %w", from.Hex(), to.Hex(), err)
		}

		if !rules.Permissions.Has(required) {
			return &types.NotDelegatedError{From: from, To: to, Permission: required}
		}

		// The further from the root a hop is, the fewer additional hops its
		// ceiling can cover.
		if int(rules.MaxRedelegations)+i+1 < len(authority) {
			return &types.TooManyRedelegationsError{From: from, To: to}
		}

		if now < rules.NotValidBefore {
			return &types.NotValidYetError{From: from, To: to, ValidFrom: rules.NotValidBefore}
		}
		if rules.NotValidAfter != 0 && now > rules.NotValidAfter {
			return &types.NotValidAnymoreError{From: from, To: to, ValidUntil: rules.NotValidAfter}
		}

		if rules.BlocksBeforeVoteCloses != 0 {
			if !deadlineLoaded {
				deadline, err = s.governor.ProposalDeadline(ctx, proposalID)
				if err != nil {
					return fmt.Errorf("failed to read proposal deadline: %w", err)
				}
				deadlineLoaded = true
			}
			block, err := s.chain.BlockNumber(ctx)
			if err != nil {
				return fmt.Errorf("failed to read block number: %w", err)
			}
			if deadline > block+uint64(rules.BlocksBeforeVoteCloses) {
				return &types.TooEarlyError{From: from, To: to, Margin: rules.BlocksBeforeVoteCloses}
			}
		}

		if rules.CustomRule != (common.Address{}) {
			if err := s.checkCustomRule(ctx, rules.CustomRule, from, to, sender, proposalID, support); err != nil {
				return err
			}
		}

		from = to
	}

	// The chain must terminate exactly at the real actor.
	if from != sender {
		return &types.NotDelegatedError{From: from, To: sender, Permission: required}
	}
	return nil
}

func (s *AuthorityService) checkCustomRule(ctx context.Context, rule common.Address, from, to, sender common.Address, proposalID *big.Int, support uint8) error {
	if s.hooks == nil {
		return &types.InvalidCustomRuleError{From: from, To: to, Rule: rule}
	}
	hook, ok := s.hooks.Resolve(rule)
	if !ok {
		return &types.InvalidCustomRuleError{From: from, To: to, Rule: rule}
	}

	sentinel, err := hook.Validate(ctx, s.governorAddr, sender, proposalID, support)
	if err != nil {
		s.logger.Warn("custom rule call failed",
			zap.String("rule", rule.Hex()),
			zap.String("from", from.Hex()),
			zap.String("to", to.Hex()),
			zap.Error(err),
		)
		return &types.InvalidCustomRuleError{From: from, To: to, Rule: rule}
	}
	if sentinel != RuleValidSentinel {
		return &types.InvalidCustomRuleError{From: from, To: to, Rule: rule}
	}
	return nil
}
