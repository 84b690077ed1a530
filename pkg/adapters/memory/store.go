package memory

import (
	"fmt"
	"sync"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// BranchStore implements ports.BranchStore in memory.
// It is an append-only slice indexed by BranchID; a slot is never rewritten
// once filled, so handles returned by Get stay valid for the store's lifetime.
// Safe for concurrent readers while a single writer inserts.
type BranchStore struct {
	states []domain.StateHandle
	mu     sync.RWMutex
}

// NewBranchStore creates a store holding only branch 0, bound to initial.
func NewBranchStore(initial domain.StateHandle) *BranchStore {
	return &BranchStore{
		states: []domain.StateHandle{initial},
	}
}

// Get retrieves the snapshot bound to id.
func (s *BranchStore) Get(id domain.BranchID) (domain.StateHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id >= domain.BranchID(len(s.states)) {
		return nil, fmt.Errorf("branch %s: %w", id, domain.ErrUnknownBranch)
	}
	return s.states[id], nil
}

// Insert appends state under the next id.
func (s *BranchStore) Insert(state domain.StateHandle) domain.BranchID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.BranchID(len(s.states))
	s.states = append(s.states, state)
	return id
}

// NextID returns the id the next Insert will allocate.
func (s *BranchStore) NextID() domain.BranchID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.BranchID(len(s.states))
}

// Len returns the number of branches.
func (s *BranchStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
