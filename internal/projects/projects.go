// Package projects keeps user-created projects, most recent first.
package projects

import (
	"sync"
	"time"

	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/google/uuid"
)

// State is the project slice. Index 0 is the most recently created project.
type State struct {
	List []models.Project `json:"list"`
}

func NewState() State {
	return State{List: []models.Project{}}
}

// CommitHook receives the project state after every committed change. It
// runs while the store lock is held.
type CommitHook func(State)

type Store struct {
	mu       sync.RWMutex
	list     []models.Project
	newID    func() string
	now      func() time.Time
	onCommit CommitHook
}

type Option func(*Store)

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithCommitHook(h CommitHook) Option {
	return func(s *Store) { s.onCommit = h }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		list:  []models.Project{},
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new project at the head of the list. Name and manager
// checks belong to the caller; a nil manager is stored as the zero Person.
func (s *Store) Create(spec models.ProjectSpec) models.Project {
	p := models.Project{
		Name:        spec.Name,
		Description: spec.Description,
		Members:     cloneMembers(spec.Members),
	}
	if spec.Manager != nil {
		p.Manager = *spec.Manager
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.newID()
	p.CreatedAt = s.now()
	s.list = append([]models.Project{p}, s.list...)
	s.commit()
	return cloneProject(p)
}

// Remove deletes the first project with the given identifier and reports
// whether one was found.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.list {
		if p.ID == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			s.commit()
			return true
		}
	}
	return false
}

// Get returns a copy of the first project with the given identifier.
func (s *Store) Get(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.list {
		if p.ID == id {
			return cloneProject(p), true
		}
	}
	return models.Project{}, false
}

// List returns copies of all projects, most recent first.
func (s *Store) List() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneList(s.list)
}

func (s *Store) State() State {
	return State{List: s.List()}
}

// Restore replaces the list with a persisted one, keeping its order.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = cloneList(st.List)
}

func (s *Store) commit() {
	if s.onCommit != nil {
		s.onCommit(State{List: cloneList(s.list)})
	}
}

func cloneList(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	for i, p := range in {
		out[i] = cloneProject(p)
	}
	return out
}

func cloneProject(p models.Project) models.Project {
	p.Members = cloneMembers(p.Members)
	return p
}

func cloneMembers(in []models.ProjectMember) []models.ProjectMember {
	out := make([]models.ProjectMember, len(in))
	copy(out, in)
	return out
}
