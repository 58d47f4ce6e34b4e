package proxy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/mocks"
	"github.com/relaylabs/delegation-relay/proxy"
)

func TestManagerCreateIdempotent(t *testing.T) {
	ctx := context.Background()
	owner := common.BytesToAddress([]byte{1})

	deployer := mocks.NewDeployerForTest(t)
	bus := events.NewBus(8, nil)
	m := proxy.NewManager(registry, governor, deployer, nil, bus, zap.NewNop())

	want := m.AddressFor(owner)
	deployer.EXPECT().Deploy(gomock.Any(), owner, want).Return(nil).Times(1)

	watch, cancel := bus.Subscribe()
	defer cancel()

	got, err := m.Create(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The second create returns the same address without redeploying.
	got, err = m.Create(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	env := <-watch
	created, ok := env.Event.(events.ProxyCreated)
	require.True(t, ok)
	assert.Equal(t, owner, created.Owner)
	assert.Equal(t, want, created.Proxy)

	select {
	case env := <-watch:
		t.Fatalf("unexpected second event %s", env.Kind)
	default:
	}
}

func TestManagerCreateDeployFailure(t *testing.T) {
	ctx := context.Background()
	owner := common.BytesToAddress([]byte{1})

	deployer := mocks.NewDeployerForTest(t)
	deployer.EXPECT().Deploy(gomock.Any(), owner, gomock.Any()).Return(errors.New("rpc down"))

	m := proxy.NewManager(registry, governor, deployer, nil, events.NewBus(8, nil), zap.NewNop())
	_, err := m.Create(ctx, owner)
	assert.ErrorContains(t, err, "failed to materialize proxy")
}

func TestManagerReverseNameBestEffort(t *testing.T) {
	ctx := context.Background()
	owner := common.BytesToAddress([]byte{1})

	deployer := mocks.NewDeployerForTest(t)
	deployer.EXPECT().Deploy(gomock.Any(), owner, gomock.Any()).Return(nil)
	registrar := mocks.NewReverseRegistrarForTest(t)
	registrar.EXPECT().SetName(gomock.Any(), gomock.Any(), owner.Hex()+".relay").Return(errors.New("registrar down"))

	m := proxy.NewManager(registry, governor, deployer, registrar, events.NewBus(8, nil), zap.NewNop())

	// Naming failure never surfaces from Create.
	got, err := m.Create(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, m.AddressFor(owner), got)
}
