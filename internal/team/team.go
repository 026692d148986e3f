// Package team keeps the user's favourited people. Its lifecycle is
// independent of the directory: resetting the directory never touches it.
package team

import (
	"sync"

	"github.com/EO-DataHub/eodhp-staff-directory/models"
)

// Outcome reports what a toggle did.
type Outcome string

const (
	Added   Outcome = "added"
	Removed Outcome = "removed"
)

// State is the team slice in insertion order.
type State struct {
	Members []models.Person `json:"members"`
}

// NewState returns the empty team.
func NewState() State {
	return State{Members: []models.Person{}}
}

// CommitHook receives the team state after every committed change. It runs
// while the store lock is held.
type CommitHook func(State)

type Store struct {
	mu       sync.RWMutex
	members  []models.Person
	index    map[string]int
	onCommit CommitHook
}

func NewStore(hook CommitHook) *Store {
	return &Store{index: make(map[string]int), members: []models.Person{}, onCommit: hook}
}

// Toggle adds a copy of p if no member shares its identifier, otherwise
// removes the existing member.
func (s *Store) Toggle(p models.Person) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ID]; ok {
		s.remove(p.ID)
		s.commit()
		return Removed
	}
	s.index[p.ID] = len(s.members)
	s.members = append(s.members, p)
	s.commit()
	return Added
}

// Remove deletes the member with the given identifier. It reports whether
// anything was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false
	}
	s.remove(id)
	s.commit()
	return true
}

// Contains reports whether a member has the given identifier.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Get returns the stored copy of a member.
func (s *Store) Get(id string) (models.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Person{}, false
	}
	return s.members[i], true
}

// Members returns the team in insertion order.
func (s *Store) Members() []models.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Person, len(s.members))
	copy(out, s.members)
	return out
}

func (s *Store) State() State {
	return State{Members: s.Members()}
}

// Restore replaces the team with a persisted one, dropping repeated identifiers.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = make([]models.Person, 0, len(st.Members))
	s.index = make(map[string]int, len(st.Members))
	for _, p := range st.Members {
		if _, ok := s.index[p.ID]; ok {
			continue
		}
		s.index[p.ID] = len(s.members)
		s.members = append(s.members, p)
	}
}

func (s *Store) remove(id string) {
	i := s.index[id]
	s.members = append(s.members[:i:i], s.members[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.members); j++ {
		s.index[s.members[j].ID] = j
	}
}

func (s *Store) commit() {
	if s.onCommit == nil {
		return
	}
	out := make([]models.Person, len(s.members))
	copy(out, s.members)
	s.onCommit(State{Members: out})
}
