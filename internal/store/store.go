// Package store coordinates the directory, team and project slices. Every
// committed change is snapshotted for persistence and announced through the
// change notifier.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/directory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/events"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/persistence"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/projects"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/query"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/team"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a person or project identifier is unknown.
var ErrNotFound = errors.New("not found")

type Store struct {
	directory *directory.Engine
	team      *team.Store
	projects  *projects.Store

	persister *persistence.Persister
	notifier  events.Notifier
	whitelist persistence.Whitelist
	now       func() time.Time
	log       *zerolog.Logger

	// commitMu guards the cached slice states below. Slice commit hooks run
	// under their own slice lock and then take commitMu, so commitMu must
	// never be held while calling into a slice.
	commitMu     sync.Mutex
	dirState     directory.State
	teamState    team.State
	projectState projects.State
}

type options struct {
	key         string
	whitelist   persistence.Whitelist
	notifier    events.Notifier
	log         *zerolog.Logger
	now         func() time.Time
	assigner    directory.Assigner
	projectOpts []projects.Option
}

type Option func(*options)

// WithKey sets the storage key of the snapshot.
func WithKey(key string) Option {
	return func(o *options) { o.key = key }
}

func WithWhitelist(wl persistence.Whitelist) Option {
	return func(o *options) { o.whitelist = wl }
}

func WithNotifier(n events.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the clock used for project timestamps and event times.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithAssigner(a directory.Assigner) Option {
	return func(o *options) { o.assigner = a }
}

// WithProjectOptions passes options through to the project store.
func WithProjectOptions(opts ...projects.Option) Option {
	return func(o *options) { o.projectOpts = append(o.projectOpts, opts...) }
}

// Open builds the store and restores persisted state from storage before
// returning. Restore problems are logged and leave the affected slices empty.
func Open(ctx context.Context, storage persistence.Storage, provider directory.Provider, opts ...Option) *Store {
	o := options{
		key:      persistence.DefaultKey,
		notifier: events.NopNotifier{},
		log:      &log.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.whitelist == nil {
		o.whitelist, _ = persistence.NewWhitelist()
	}

	s := &Store{
		persister: persistence.NewPersister(storage, o.key, o.log),
		notifier:  o.notifier,
		whitelist: o.whitelist,
		now:       o.now,
		log:       o.log,
	}

	engineOpts := []directory.Option{
		directory.WithCommitHook(s.onDirectoryCommit),
		directory.WithLogger(o.log),
	}
	if o.assigner != nil {
		engineOpts = append(engineOpts, directory.WithAssigner(o.assigner))
	}
	s.directory = directory.NewEngine(provider, engineOpts...)
	s.team = team.NewStore(s.onTeamCommit)
	s.projects = projects.NewStore(append([]projects.Option{
		projects.WithClock(o.now),
		projects.WithCommitHook(s.onProjectsCommit),
	}, o.projectOpts...)...)

	restored := persistence.Restore(ctx, storage, o.key, o.whitelist, o.log)
	s.directory.Restore(restored.Directory)
	s.team.Restore(restored.Team)
	s.projects.Restore(restored.Projects)

	s.commitMu.Lock()
	s.dirState = s.directory.State()
	s.teamState = s.team.State()
	s.projectState = s.projects.State()
	s.commitMu.Unlock()

	return s
}

// Run writes snapshots in the background until ctx is done, then flushes.
func (s *Store) Run(ctx context.Context) error {
	return s.persister.Run(ctx)
}

// Flush writes any snapshot not yet persisted.
func (s *Store) Flush(ctx context.Context) {
	s.persister.Flush(ctx)
}

func (s *Store) PersistStats() persistence.Stats {
	return s.persister.Stats()
}

func (s *Store) onDirectoryCommit(st directory.State) {
	s.commitMu.Lock()
	s.dirState = st
	s.saveLocked(persistence.SliceDirectory)
	s.commitMu.Unlock()
}

func (s *Store) onTeamCommit(st team.State) {
	s.commitMu.Lock()
	s.teamState = st
	s.saveLocked(persistence.SliceTeam)
	s.commitMu.Unlock()
}

func (s *Store) onProjectsCommit(st projects.State) {
	s.commitMu.Lock()
	s.projectState = st
	s.saveLocked(persistence.SliceProjects)
	s.commitMu.Unlock()
}

// saveLocked hands the current snapshot to the persister. It runs under
// commitMu so snapshots reach the persister in commit order.
func (s *Store) saveLocked(changed persistence.Slice) {
	if !s.whitelist.Has(changed) {
		return
	}
	s.persister.Save(persistence.Build(s.whitelist, s.dirState, s.teamState, s.projectState))
}

func (s *Store) notify(slice, action, id string) {
	err := s.notifier.Notify(events.EventPayload{
		Slice:     slice,
		Action:    action,
		ID:        id,
		Timestamp: s.now(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("slice", slice).Str("action", action).Msg("failed to publish change event")
	}
}

// RequestPage fetches page n and waits for it to be merged.
func (s *Store) RequestPage(ctx context.Context, n int) error {
	err := s.directory.RequestPage(ctx, n)
	if !directory.IsInFlight(err) {
		s.notify(events.SliceDirectory, events.ActionUpdate, "")
	}
	return err
}

// RequestNextPage fetches the page at the directory cursor.
func (s *Store) RequestNextPage(ctx context.Context) error {
	return s.RequestPage(ctx, s.directory.NextPage())
}

// Refresh empties the directory and fetches the first page.
func (s *Store) Refresh(ctx context.Context) error {
	s.directory.Reset()
	return s.RequestPage(ctx, directory.FirstPage)
}

func (s *Store) ResetDirectory() {
	s.directory.Reset()
	s.notify(events.SliceDirectory, events.ActionDelete, "")
}

// ToggleTeam adds p to the team, or removes the member sharing its identifier.
func (s *Store) ToggleTeam(p models.Person) team.Outcome {
	outcome := s.team.Toggle(p)
	action := events.ActionCreate
	if outcome == team.Removed {
		action = events.ActionDelete
	}
	s.notify(events.SliceTeam, action, p.ID)
	return outcome
}

// ToggleTeamByID toggles the directory person with the given identifier.
func (s *Store) ToggleTeamByID(id string) (team.Outcome, models.Person, error) {
	p, ok := s.Person(id)
	if !ok {
		// A member no longer in the directory can still be removed.
		if p, ok = s.team.Get(id); !ok {
			return "", models.Person{}, ErrNotFound
		}
	}
	return s.ToggleTeam(p), p, nil
}

func (s *Store) RemoveFromTeam(id string) bool {
	if !s.team.Remove(id) {
		return false
	}
	s.notify(events.SliceTeam, events.ActionDelete, id)
	return true
}

// CreateProject stores a new project at the head of the list.
func (s *Store) CreateProject(spec models.ProjectSpec) models.Project {
	p := s.projects.Create(spec)
	s.notify(events.SliceProjects, events.ActionCreate, p.ID)
	return p
}

func (s *Store) DeleteProject(id string) bool {
	if !s.projects.Remove(id) {
		return false
	}
	s.notify(events.SliceProjects, events.ActionDelete, id)
	return true
}

// Directory returns a copy of the directory state.
func (s *Store) Directory() directory.State {
	return s.directory.State()
}

func (s *Store) NextPage() int {
	return s.directory.NextPage()
}

// Person looks up a directory entry by identifier.
func (s *Store) Person(id string) (models.Person, bool) {
	for _, p := range s.directory.State().People {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

func (s *Store) Team() []models.Person {
	return s.team.Members()
}

func (s *Store) TeamMember(id string) (models.Person, bool) {
	return s.team.Get(id)
}

func (s *Store) IsTeamMember(id string) bool {
	return s.team.Contains(id)
}

func (s *Store) Projects() []models.Project {
	return s.projects.List()
}

func (s *Store) Project(id string) (models.Project, bool) {
	return s.projects.Get(id)
}

// ProjectsFor lists the projects a person manages or belongs to.
func (s *Store) ProjectsFor(personID string) []models.Project {
	return query.ProjectsFor(s.projects.List(), personID)
}

// Search filters the directory by name or department.
func (s *Store) Search(q string) []models.Person {
	return s.directory.Filter(q)
}

// Department lists directory people in exactly the given department.
func (s *Store) Department(d string) []models.Person {
	return query.ByDepartment(s.directory.State().People, d)
}

// Departments lists the departments present in the directory with head counts.
func (s *Store) Departments() []models.Department {
	people := s.directory.State().People
	counts := query.DepartmentCounts(people)
	names := query.Departments(people)
	out := make([]models.Department, 0, len(names))
	for _, n := range names {
		out = append(out, models.Department{Name: n, Count: counts[n]})
	}
	return out
}

// Candidates lists directory people matching q by name, minus exclude.
func (s *Store) Candidates(q string, exclude ...string) []models.Person {
	return query.Candidates(s.directory.State().People, q, exclude...)
}
