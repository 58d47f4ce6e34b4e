package services_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/mocks"
	"github.com/relaylabs/delegation-relay/services"
	"github.com/relaylabs/delegation-relay/store"
	"github.com/relaylabs/delegation-relay/types"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func addr(b byte) common.Address {
	return common.BytesToAddress([]byte{b})
}

var (
	governorAddr = addr(0xf0)
	testClock    = fixedClock{now: time.Unix(1_700_000_000, 0)}
)

func newAuthorityService(s store.Store, governor services.Governor, chain services.ChainReader, hooks services.HookResolver) *services.AuthorityService {
	return services.NewAuthorityService(s, governor, chain, hooks, governorAddr, testClock, zap.NewNop())
}

func TestValidateSelfAction(t *testing.T) {
	root := addr(1)
	svc := newAuthorityService(store.NewMemoryStore(), nil, nil, nil)

	// The principal acting for itself needs no stored edges at all.
	err := svc.Validate(context.Background(), root, types.Authority{root}, types.PermissionVote, big.NewInt(1), 0)
	assert.NoError(t, err)
}

func TestValidateEmptyAuthority(t *testing.T) {
	svc := newAuthorityService(store.NewMemoryStore(), nil, nil, nil)

	err := svc.Validate(context.Background(), addr(1), nil, types.PermissionVote, big.NewInt(1), 0)

	var notDelegated *types.NotDelegatedError
	require.ErrorAs(t, err, &notDelegated)
}

func TestValidateDefaultDeny(t *testing.T) {
	root, delegate := addr(1), addr(2)
	svc := newAuthorityService(store.NewMemoryStore(), nil, nil, nil)

	// No edge was ever written, so the zero rules grant nothing.
	err := svc.Validate(context.Background(), delegate, types.Authority{root, delegate}, types.PermissionVote, big.NewInt(1), 0)

	var notDelegated *types.NotDelegatedError
	require.ErrorAs(t, err, &notDelegated)
	assert.Equal(t, root, notDelegated.From)
	assert.Equal(t, delegate, notDelegated.To)
}

func TestValidatePermissionMask(t *testing.T) {
	root, delegate := addr(1), addr(2)
	ctx := context.Background()

	st := store.NewMemoryStore()
	require.NoError(t, st.SetRules(ctx, root, delegate, types.Rules{Permissions: types.PermissionVote}))
	svc := newAuthorityService(st, nil, nil, nil)

	tests := []struct {
		name     string
		required types.Permission
		wantErr  bool
	}{
		{name: "granted bit passes", required: types.PermissionVote, wantErr: false},
		{name: "missing bit fails", required: types.PermissionPropose, wantErr: true},
		{name: "superset fails", required: types.PermissionVote | types.PermissionSign, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(ctx, delegate, types.Authority{root, delegate}, tt.required, big.NewInt(1), 0)
			if tt.wantErr {
				var notDelegated *types.NotDelegatedError
				assert.ErrorAs(t, err, &notDelegated)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRedelegationDepth(t *testing.T) {
	principal, d1, d2, d3 := addr(1), addr(2), addr(3), addr(4)
	ctx := context.Background()

	st := store.NewMemoryStore()
	require.NoError(t, st.SetRules(ctx, principal, d1, types.Rules{
		Permissions:      types.PermissionVote | types.PermissionSign,
		MaxRedelegations: 1,
	}))
	require.NoError(t, st.SetRules(ctx, d1, d2, types.Rules{
		Permissions: types.PermissionVote,
	}))
	require.NoError(t, st.SetRules(ctx, d2, d3, types.Rules{
		Permissions: types.PermissionVote,
	}))
	svc := newAuthorityService(st, nil, nil, nil)

	// d1 may extend the chain by one hop, so d2 can vote.
	err := svc.Validate(ctx, d2, types.Authority{principal, d1, d2}, types.PermissionVote, big.NewInt(1), 0)
	assert.NoError(t, err)

	// A second extension exceeds d1's ceiling even though every edge exists.
	err = svc.Validate(ctx, d3, types.Authority{principal, d1, d2, d3}, types.PermissionVote, big.NewInt(1), 0)

	var tooMany *types.TooManyRedelegationsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, principal, tooMany.From)
	assert.Equal(t, d1, tooMany.To)
}

func TestValidateTimeWindow(t *testing.T) {
	root, delegate := addr(1), addr(2)
	ctx := context.Background()
	now := uint64(testClock.now.Unix())

	tests := []struct {
		name    string
		rules   types.Rules
		wantErr any
	}{
		{
			name:  "open-ended window passes",
			rules: types.Rules{Permissions: types.PermissionVote},
		},
		{
			name: "inside bounded window passes",
			rules: types.Rules{
				Permissions:    types.PermissionVote,
				NotValidBefore: now - 100,
				NotValidAfter:  now + 100,
			},
		},
		{
			name: "not yet valid",
			rules: types.Rules{
				Permissions:    types.PermissionVote,
				NotValidBefore: now + 100,
			},
			wantErr: new(*types.NotValidYetError),
		},
		{
			name: "expired",
			rules: types.Rules{
				Permissions:   types.PermissionVote,
				NotValidAfter: now - 100,
			},
			wantErr: new(*types.NotValidAnymoreError),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			require.NoError(t, st.SetRules(ctx, root, delegate, tt.rules))
			svc := newAuthorityService(st, nil, nil, nil)

			err := svc.Validate(ctx, delegate, types.Authority{root, delegate}, types.PermissionVote, big.NewInt(1), 0)
			if tt.wantErr != nil {
				assert.ErrorAs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDeadlineMargin(t *testing.T) {
	root, delegate := addr(1), addr(2)
	ctx := context.Background()
	proposalID := big.NewInt(7)

	tests := []struct {
		name     string
		deadline uint64
		block    uint64
		wantErr  bool
	}{
		{name: "too early", deadline: 1000, block: 900, wantErr: true},
		{name: "inside margin", deadline: 1000, block: 995, wantErr: false},
		{name: "margin boundary", deadline: 1000, block: 990, wantErr: false},
		{name: "past deadline still passes here", deadline: 1000, block: 1005, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			require.NoError(t, st.SetRules(ctx, root, delegate, types.Rules{
				Permissions:            types.PermissionVote,
				BlocksBeforeVoteCloses: 10,
			}))

			governor := mocks.NewGovernorForTest(t)
			governor.EXPECT().ProposalDeadline(gomock.Any(), proposalID).Return(tt.deadline, nil)
			chain := mocks.NewChainReaderForTest(t)
			chain.EXPECT().BlockNumber(gomock.Any()).Return(tt.block, nil)

			svc := newAuthorityService(st, governor, chain, nil)
			err := svc.Validate(ctx, delegate, types.Authority{root, delegate}, types.PermissionVote, proposalID, 0)
			if tt.wantErr {
				var tooEarly *types.TooEarlyError
				require.ErrorAs(t, err, &tooEarly)
				assert.Equal(t, uint16(10), tooEarly.Margin)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDeadlineReadOnce(t *testing.T) {
	principal, d1, d2 := addr(1), addr(2), addr(3)
	ctx := context.Background()
	proposalID := big.NewInt(7)

	st := store.NewMemoryStore()
	require.NoError(t, st.SetRules(ctx, principal, d1, types.Rules{
		Permissions:            types.PermissionVote,
		MaxRedelegations:       1,
		BlocksBeforeVoteCloses: 10,
	}))
	require.NoError(t, st.SetRules(ctx, d1, d2, types.Rules{
		Permissions:            types.PermissionVote,
		BlocksBeforeVoteCloses: 20,
	}))

	// Both hops carry a margin, but the deadline is fetched a single time.
	governor := mocks.NewGovernorForTest(t)
	governor.EXPECT().ProposalDeadline(gomock.Any(), proposalID).Return(uint64(1000), nil).Times(1)
	chain := mocks.NewChainReaderForTest(t)
	chain.EXPECT().BlockNumber(gomock.Any()).Return(uint64(995), nil).Times(2)

	svc := newAuthorityService(st, governor, chain, nil)
	err := svc.Validate(ctx, d2, types.Authority{principal, d1, d2}, types.PermissionVote, proposalID, 0)
	assert.NoError(t, err)
}

func TestValidateCustomRule(t *testing.T) {
	root, delegate, rule := addr(1), addr(2), addr(0xcc)
	ctx := context.Background()
	proposalID := big.NewInt(7)

	st := store.NewMemoryStore()
	require.NoError(t, st.SetRules(ctx, root, delegate, types.Rules{
		Permissions: types.PermissionVote,
		CustomRule:  rule,
	}))

	t.Run("sentinel passes", func(t *testing.T) {
		hook := mocks.NewRuleHookForTest(t)
		hook.EXPECT().Validate(gomock.Any(), governorAddr, delegate, proposalID, uint8(1)).Return(services.RuleValidSentinel, nil)
		resolver := mocks.NewHookResolverForTest(t)
		resolver.EXPECT().Resolve(rule).Return(hook, true)

		svc := newAuthorityService(st, nil, nil, resolver)
		err := svc.Validate(ctx, delegate, types.Authority{root, delegate}, types.PermissionVote, proposalID, 1)
		assert.NoError(t, err)
	})

	t.Run("wrong sentinel fails", func(t *testing.T) {
		hook := mocks.NewRuleHookForTest(t)
		hook.EXPECT().Validate(gomock.Any(), governorAddr, delegate, proposalID, uint8(1)).Return([4]byte{0xde, 0xad, 0xbe, 0xef}, nil)
		resolver := mocks.NewHookResolverForTest(t)
		resolver.EXPECT().Resolve(rule).Return(hook, true)

		svc := newAuthorityService(st, nil, nil, resolver)
		err := svc.Validate(ctx, delegate, types.Authority{root, delegate}, types.PermissionVote, proposalID, 1)

		var invalidRule *types.InvalidCustomRuleError
		require.ErrorAs(t, err, &invalidRule)
		assert.Equal(t, rule, invalidRule.Rule)
	})

	t.Run("unresolvable rule fails", func(t *testing.T) {
		svc := newAuthorityService(st, nil, nil, nil)
		err := svc.Validate(ctx, delegate, types.Authority{root, delegate}, types.PermissionVote, proposalID, 1)

		var invalidRule *types.InvalidCustomRuleError
		assert.ErrorAs(t, err, &invalidRule)
	})
}

func TestValidateChainTermination(t *testing.T) {
	root, delegate, stranger := addr(1), addr(2), addr(3)
	ctx := context.Background()

	st := store.NewMemoryStore()
	require.NoError(t, st.SetRules(ctx, root, delegate, types.Rules{Permissions: types.PermissionVote}))
	svc := newAuthorityService(st, nil, nil, nil)

	// A valid chain proves nothing for a sender who is not its last hop.
	err := svc.Validate(ctx, stranger, types.Authority{root, delegate}, types.PermissionVote, big.NewInt(1), 0)

	var notDelegated *types.NotDelegatedError
	require.ErrorAs(t, err, &notDelegated)
	assert.Equal(t, delegate, notDelegated.From)
	assert.Equal(t, stranger, notDelegated.To)
}
