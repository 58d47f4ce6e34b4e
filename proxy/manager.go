package proxy

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/events"
)

// Deployer materializes a proxy at its pre-derived address. Implementations
// must be idempotent: deploying an already-materialized proxy is a no-op.
type Deployer interface {
	Deploy(ctx context.Context, owner, proxy common.Address) error
}

// ReverseRegistrar is the optional naming collaborator. Registration failure
// never blocks proxy creation.
type ReverseRegistrar interface {
	SetName(ctx context.Context, proxy common.Address, name string) error
}

// Manager owns the proxy lifecycle: deterministic derivation plus idempotent
// materialization. The created set is process-local bookkeeping; the
// derivation itself needs no state at all.
type Manager struct {
	registry common.Address
	governor common.Address

	deployer  Deployer
	registrar ReverseRegistrar
	emitter   events.Emitter
	logger    *zap.Logger

	mu      sync.Mutex
	created map[common.Address]bool
}

// NewManager creates a proxy manager. registrar may be nil when no reverse
// naming is configured.
func NewManager(registry, governor common.Address, deployer Deployer, registrar ReverseRegistrar, emitter events.Emitter, logger *zap.Logger) *Manager {
	return &Manager{
		registry:  registry,
		governor:  governor,
		deployer:  deployer,
		registrar: registrar,
		emitter:   emitter,
		logger:    logger,
		created:   make(map[common.Address]bool),
	}
}

// AddressFor derives the proxy identity for owner. Pure and stable.
func (m *Manager) AddressFor(owner common.Address) common.Address {
	return Address(m.registry, m.governor, owner)
}

// Create materializes the proxy for owner if needed and returns its address.
// Calling it twice never fails and always yields the same address.
func (m *Manager) Create(ctx context.Context, owner common.Address) (common.Address, error) {
	addr := m.AddressFor(owner)

	m.mu.Lock()
	already := m.created[addr]
	m.mu.Unlock()
	if already {
		return addr, nil
	}

	if err := m.deployer.Deploy(ctx, owner, addr); err != nil {
		return common.Address{}, fmt.Errorf("failed to materialize proxy for %s: %w", owner.Hex(), err)
	}

	m.mu.Lock()
	first := !m.created[addr]
	m.created[addr] = true
	m.mu.Unlock()

	if first {
		m.emitter.Emit(events.ProxyCreated{Owner: owner, Proxy: addr})

		if m.registrar != nil {
			name := owner.Hex() + ".relay"
			if err := m.registrar.SetName(ctx, addr, name); err != nil {
				// Naming is a discoverability nicety; creation already succeeded.
				m.logger.Warn("reverse-name registration failed",
					zap.String("proxy", addr.Hex()),
					zap.String("name", name),
					zap.Error(err),
				)
			}
		}
	}

	return addr, nil
}
