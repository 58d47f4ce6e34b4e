package services_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/mocks"
	"github.com/relaylabs/delegation-relay/proxy"
	"github.com/relaylabs/delegation-relay/services"
	"github.com/relaylabs/delegation-relay/store"
	"github.com/relaylabs/delegation-relay/types"
)

type dispatchFixture struct {
	svc      *services.DispatchService
	store    *store.MemoryStore
	proxies  *proxy.Manager
	governor *mocks.MockGovernor
	deployer *mocks.MockDeployer
	chain    *mocks.MockChainReader
	pool     *mocks.MockRefundPool
	gauge    *mocks.MockGasGauge
	bus      *events.Bus
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	log := zap.NewNop()
	st := store.NewMemoryStore()
	bus := events.NewBus(16, nil)

	governor := mocks.NewGovernorForTest(t)
	deployer := mocks.NewDeployerForTest(t)
	chain := mocks.NewChainReaderForTest(t)
	pool := mocks.NewRefundPoolForTest(t)
	gauge := mocks.NewGasGaugeForTest(t)

	proxies := proxy.NewManager(registryAddr, governorAddr, deployer, nil, bus, log)
	authority := services.NewAuthorityService(st, governor, chain, nil, governorAddr, testClock, log)
	signatures := services.NewSignatureService(authority, st, proxies, testChainID, registryAddr, bus, log)
	refunds := services.NewRefundService(pool, chain, bus, log)

	return &dispatchFixture{
		svc:      services.NewDispatchService(authority, signatures, refunds, st, proxies, governor, gauge, bus, log),
		store:    st,
		proxies:  proxies,
		governor: governor,
		deployer: deployer,
		chain:    chain,
		pool:     pool,
		gauge:    gauge,
		bus:      bus,
	}
}

func TestSubDelegate(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	delegator, delegate := addr(1), addr(2)
	rules := types.Rules{Permissions: types.PermissionVote, MaxRedelegations: 2}

	f.deployer.EXPECT().Deploy(gomock.Any(), delegator, f.proxies.AddressFor(delegator)).Return(nil)

	watch, cancel := f.bus.Subscribe()
	defer cancel()

	require.NoError(t, f.svc.SubDelegate(ctx, delegator, delegate, rules))

	stored, err := f.store.GetRules(ctx, delegator, delegate)
	require.NoError(t, err)
	assert.Equal(t, rules, stored)

	// Proxy creation, then the delegation edge.
	env := <-watch
	assert.Equal(t, "proxy.created", env.Kind)
	env = <-watch
	set, ok := env.Event.(events.SubDelegation)
	require.True(t, ok)
	assert.Equal(t, rules, set.Rules)
}

func TestSubDelegateRevocation(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	delegator, delegate := addr(1), addr(2)

	f.deployer.EXPECT().Deploy(gomock.Any(), delegator, gomock.Any()).Return(nil)

	require.NoError(t, f.svc.SubDelegate(ctx, delegator, delegate, types.Rules{Permissions: types.PermissionVote}))
	// Writing the zero rules takes the grant away again.
	require.NoError(t, f.svc.SubDelegate(ctx, delegator, delegate, types.Rules{}))

	stored, err := f.store.GetRules(ctx, delegator, delegate)
	require.NoError(t, err)
	assert.True(t, stored.IsZero())
}

func TestSubDelegateBatched(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	delegator := addr(1)

	err := f.svc.SubDelegateBatched(ctx, delegator, []common.Address{addr(2), addr(3)}, []types.Rules{{Permissions: types.PermissionVote}})
	assert.ErrorContains(t, err, "length mismatch")

	f.deployer.EXPECT().Deploy(gomock.Any(), delegator, gomock.Any()).Return(nil)
	err = f.svc.SubDelegateBatched(ctx, delegator,
		[]common.Address{addr(2), addr(3)},
		[]types.Rules{{Permissions: types.PermissionVote}, {Permissions: types.PermissionSign}},
	)
	require.NoError(t, err)

	stored, err := f.store.GetRules(ctx, delegator, addr(3))
	require.NoError(t, err)
	assert.Equal(t, types.PermissionSign, stored.Permissions)
}

func TestProposeCreatesBeforeAuthorizing(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	principal, delegate := addr(1), addr(2)
	proposalID := big.NewInt(42)
	proxyAddr := f.proxies.AddressFor(principal)

	// The proposal reaches the governor before authorization runs, and the
	// resulting failure still reports the id it was assigned.
	f.deployer.EXPECT().Deploy(gomock.Any(), principal, proxyAddr).Return(nil)
	f.governor.EXPECT().
		Propose(gomock.Any(), proxyAddr, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "raise quorum").
		Return(proposalID, nil)

	_, err := f.svc.Propose(ctx, delegate, types.Authority{principal, delegate}, nil, nil, nil, nil, "raise quorum")

	var notAuthorized *types.ProposalNotAuthorizedError
	require.ErrorAs(t, err, &notAuthorized)
	assert.Zero(t, proposalID.Cmp(notAuthorized.ProposalID))

	var notDelegated *types.NotDelegatedError
	assert.ErrorAs(t, notAuthorized.Err, &notDelegated)
}

func TestProposeAuthorized(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	principal, delegate := addr(1), addr(2)
	require.NoError(t, f.store.SetRules(ctx, principal, delegate, types.Rules{Permissions: types.PermissionPropose}))

	proxyAddr := f.proxies.AddressFor(principal)
	f.deployer.EXPECT().Deploy(gomock.Any(), principal, proxyAddr).Return(nil)
	f.governor.EXPECT().
		Propose(gomock.Any(), proxyAddr, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "raise quorum").
		Return(big.NewInt(42), nil)

	proposalID, err := f.svc.Propose(ctx, delegate, types.Authority{principal, delegate}, nil, nil, nil, nil, "raise quorum")
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(42).Cmp(proposalID))
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	principal, delegate := addr(1), addr(2)
	require.NoError(t, f.store.SetRules(ctx, principal, delegate, types.Rules{Permissions: types.PermissionVote}))

	proxyAddr := f.proxies.AddressFor(principal)
	f.deployer.EXPECT().Deploy(gomock.Any(), principal, proxyAddr).Return(nil)
	f.governor.EXPECT().CastVote(gomock.Any(), proxyAddr, big.NewInt(7), uint8(1), "").Return(nil)

	watch, cancel := f.bus.Subscribe()
	defer cancel()

	require.NoError(t, f.svc.CastVote(ctx, delegate, types.Authority{principal, delegate}, big.NewInt(7), 1))

	env := <-watch // proxy.created
	env = <-watch
	cast, ok := env.Event.(events.VoteCast)
	require.True(t, ok, "expected a vote event, got %s", env.Kind)
	assert.Equal(t, delegate, cast.Voter)
	assert.Equal(t, types.Authority{principal, delegate}, cast.Authority)
}

func TestCastVoteUnauthorized(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	// No edge, no governor traffic.
	err := f.svc.CastVote(ctx, addr(2), types.Authority{addr(1), addr(2)}, big.NewInt(7), 1)

	var notDelegated *types.NotDelegatedError
	assert.ErrorAs(t, err, &notDelegated)
}

func TestCastVoteBySig(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	delegate := crypto.PubkeyToAddress(key.PublicKey)
	principal := addr(1)

	require.NoError(t, f.store.SetRules(ctx, principal, delegate, types.Rules{Permissions: types.PermissionVote}))

	signatures := services.NewSignatureService(
		services.NewAuthorityService(f.store, f.governor, f.chain, nil, governorAddr, testClock, zap.NewNop()),
		f.store, f.proxies, testChainID, registryAddr, f.bus, zap.NewNop(),
	)
	digest := signatures.VoteDigest(big.NewInt(7), 1)
	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	proxyAddr := f.proxies.AddressFor(principal)
	f.deployer.EXPECT().Deploy(gomock.Any(), principal, proxyAddr).Return(nil)
	f.governor.EXPECT().CastVote(gomock.Any(), proxyAddr, big.NewInt(7), uint8(1), "").Return(nil)

	err = f.svc.CastVoteBySig(ctx, types.Authority{principal, delegate}, big.NewInt(7), 1, sig)
	assert.NoError(t, err)
}

func TestCastVotesBatchedAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	p1, p2, delegate := addr(1), addr(2), addr(3)
	require.NoError(t, f.store.SetRules(ctx, p1, delegate, types.Rules{Permissions: types.PermissionVote}))
	// p2 never delegated, so the whole batch must abort before any vote.

	err := f.svc.CastVotesWithReasonBatched(ctx, delegate,
		[]types.Authority{{p1, delegate}, {p2, delegate}},
		big.NewInt(7), 1, "")

	assert.ErrorContains(t, err, "chain 1")
	var notDelegated *types.NotDelegatedError
	assert.ErrorAs(t, err, &notDelegated)
}

func TestCastVotesBatched(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	p1, p2, delegate := addr(1), addr(2), addr(3)
	require.NoError(t, f.store.SetRules(ctx, p1, delegate, types.Rules{Permissions: types.PermissionVote}))
	require.NoError(t, f.store.SetRules(ctx, p2, delegate, types.Rules{Permissions: types.PermissionVote}))

	f.deployer.EXPECT().Deploy(gomock.Any(), p1, gomock.Any()).Return(nil)
	f.deployer.EXPECT().Deploy(gomock.Any(), p2, gomock.Any()).Return(nil)
	f.governor.EXPECT().CastVote(gomock.Any(), f.proxies.AddressFor(p1), big.NewInt(7), uint8(1), "agree").Return(nil)
	f.governor.EXPECT().CastVote(gomock.Any(), f.proxies.AddressFor(p2), big.NewInt(7), uint8(1), "agree").Return(nil)

	err := f.svc.CastVotesWithReasonBatched(ctx, delegate,
		[]types.Authority{{p1, delegate}, {p2, delegate}},
		big.NewInt(7), 1, "agree")
	assert.NoError(t, err)
}

func TestCastRefundableVotesBatched(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)

	principal, delegate := addr(1), addr(2)
	require.NoError(t, f.store.SetRules(ctx, principal, delegate, types.Rules{Permissions: types.PermissionVote}))

	f.deployer.EXPECT().Deploy(gomock.Any(), principal, gomock.Any()).Return(nil)
	f.governor.EXPECT().CastVote(gomock.Any(), f.proxies.AddressFor(principal), big.NewInt(7), uint8(1), "").Return(nil)

	// The gauge delta is what gets refunded, on top of the fixed overhead.
	gomock.InOrder(
		f.gauge.EXPECT().Spent(gomock.Any()).Return(uint64(1_000), nil),
		f.gauge.EXPECT().Spent(gomock.Any()).Return(uint64(51_000), nil),
	)
	f.pool.EXPECT().Balance(gomock.Any()).Return(gwei(1_000_000), nil)
	f.chain.EXPECT().BaseFee(gomock.Any()).Return(gwei(10), nil)
	f.chain.EXPECT().GasPrice(gomock.Any()).Return(gwei(10), nil)

	wantAmount := new(big.Int).Mul(gwei(10), big.NewInt(50_000+36_000))
	f.pool.EXPECT().Transfer(gomock.Any(), delegate, wantAmount).Return(nil)

	err := f.svc.CastRefundableVotesWithReasonBatched(ctx, delegate,
		[]types.Authority{{principal, delegate}},
		big.NewInt(7), 1, "")
	assert.NoError(t, err)
}
