package store

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/relaylabs/delegation-relay/types"
)

type edgeKey struct {
	delegator common.Address
	delegate  common.Address
}

type sigKey struct {
	proxy  common.Address
	digest common.Hash
}

// MemoryStore keeps the relay state in process memory. It backs the local
// stage and the test suite; deployed stages use PostgresStore.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[edgeKey]types.Rules
	sigs  map[sigKey]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rules: make(map[edgeKey]types.Rules),
		sigs:  make(map[sigKey]bool),
	}
}

// GetRules returns the stored rules, or the zero value for unset edges.
func (s *MemoryStore) GetRules(_ context.Context, delegator, delegate common.Address) (types.Rules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules[edgeKey{delegator, delegate}], nil
}

// SetRules overwrites the edge.
func (s *MemoryStore) SetRules(_ context.Context, delegator, delegate common.Address, rules types.Rules) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[edgeKey{delegator, delegate}] = rules
	return nil
}

// ApproveSignature marks the digest approved for the proxy.
func (s *MemoryStore) ApproveSignature(_ context.Context, proxy common.Address, digest common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sigs[sigKey{proxy, digest}] = true
	return nil
}

// IsSignatureApproved reports whether the digest was approved for the proxy.
func (s *MemoryStore) IsSignatureApproved(_ context.Context, proxy common.Address, digest common.Hash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sigs[sigKey{proxy, digest}], nil
}
