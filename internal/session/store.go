// Package session keeps short-lived per-conversation context between
// turns, so refinements like "y el 22?" can reuse the previous
// question instead of starting over.
//
// The store is process-local and unbounded: losing it on
// restart only degrades follow-up convenience, never correctness, since
// every intent can also be fully specified in a single utterance.
// Eviction, if ever needed, belongs to the owning gateway.
package session

import (
	"sync"

	"datatalk/internal/nlu"
)

// State is the remembered context for one conversation.
type State struct {
	LastIntent  nlu.Intent
	LastFilters nlu.FilterSet
}

// Store maps opaque conversation ids to their last resolved state.
//
// The map itself is guarded so different conversations may arrive on
// different goroutines; turns within one conversation are assumed to be
// serialized by the caller.
type Store struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewStore returns an empty store. Each test or gateway instance gets
// its own; there is no process-wide state.
func NewStore() *Store {
	return &Store{states: make(map[string]State)}
}

// Lookup returns the remembered state for the conversation. An unknown
// id yields the zero State and false, equivalent to "no context".
func (s *Store) Lookup(conversationID string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[conversationID]
	return state, ok
}

// Remember records the state for the conversation, creating the entry
// on first use.
func (s *Store) Remember(conversationID string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[conversationID] = state
}

// Forget drops the conversation's context. Forgetting an unknown id is
// a no-op.
func (s *Store) Forget(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversationID)
}

// Len reports how many conversations currently hold context.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
