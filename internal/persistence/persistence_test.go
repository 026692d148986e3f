package persistence

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/directory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/projects"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/memory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/team"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStorage struct {
	getErr error
	setErr error
}

func (b brokenStorage) Get(context.Context, string) ([]byte, bool, error) { return nil, false, b.getErr }
func (b brokenStorage) Set(context.Context, string, []byte) error         { return b.setErr }
func (b brokenStorage) Close() error                                      { return nil }

// gatedStorage blocks every Set until released and records what was written.
type gatedStorage struct {
	mu      sync.Mutex
	gate    chan struct{}
	entered chan struct{}
	writes  [][]byte
}

func (g *gatedStorage) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (g *gatedStorage) Close() error                                      { return nil }
func (g *gatedStorage) Set(_ context.Context, _ string, v []byte) error {
	g.entered <- struct{}{}
	<-g.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writes = append(g.writes, v)
	return nil
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func sampleState() (directory.State, team.State, projects.State) {
	ada := models.Person{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Department: "Engineering"}
	d := directory.State{People: []models.Person{ada}, Page: 2, Status: directory.StatusSucceeded}
	t := team.State{Members: []models.Person{ada}}
	p := projects.State{List: []models.Project{{
		ID: "p1", Name: "Apollo", Manager: ada,
		Members:   []models.ProjectMember{{Person: ada, Role: models.DefaultMemberRole}},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}}
	return d, t, p
}

func TestNewWhitelist(t *testing.T) {
	wl, err := NewWhitelist()
	require.NoError(t, err)
	assert.True(t, wl.Has(SliceTeam))
	assert.True(t, wl.Has(SliceProjects))
	assert.False(t, wl.Has(SliceDirectory))

	wl, err = NewWhitelist(" Directory ", "team")
	require.NoError(t, err)
	assert.True(t, wl.Has(SliceDirectory))
	assert.False(t, wl.Has(SliceProjects))

	_, err = NewWhitelist("settings")
	assert.ErrorContains(t, err, "settings")
}

func TestBuildOmitsSlicesOutsideWhitelist(t *testing.T) {
	wl, _ := NewWhitelist()
	d, tm, p := sampleState()

	data, err := Encode(Build(wl, d, tm, p))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"directory"`)
	assert.Contains(t, string(data), `"team"`)
	assert.Contains(t, string(data), `"version":1`)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	wl, _ := NewWhitelist("directory", "team", "projects")
	d, tm, p := sampleState()

	data, err := Encode(Build(wl, d, tm, p))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, DefaultKey, data))

	r := Restore(ctx, store, DefaultKey, wl, nopLogger())
	assert.Equal(t, d, r.Directory)
	assert.Equal(t, tm, r.Team)
	assert.Equal(t, p, r.Projects)
	assert.Equal(t, []Slice{SliceDirectory, SliceTeam, SliceProjects}, r.Found)
}

func TestRestoreFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	wl, _ := NewWhitelist()

	garbage := memory.New()
	require.NoError(t, garbage.Set(ctx, DefaultKey, []byte("{not json")))

	cases := map[string]Storage{
		"absent":     memory.New(),
		"unreadable": garbage,
		"read error": brokenStorage{getErr: errors.New("disk on fire")},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			r := Restore(ctx, s, DefaultKey, wl, nopLogger())
			assert.Equal(t, directory.NewState(), r.Directory)
			assert.Equal(t, team.NewState(), r.Team)
			assert.Equal(t, projects.NewState(), r.Projects)
			assert.Empty(t, r.Found)
		})
	}
}

func TestRestoreIgnoresSlicesOutsideWhitelist(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	all, _ := NewWhitelist("directory", "team", "projects")
	d, tm, p := sampleState()
	data, _ := Encode(Build(all, d, tm, p))
	require.NoError(t, store.Set(ctx, DefaultKey, data))

	wl, _ := NewWhitelist()
	r := Restore(ctx, store, DefaultKey, wl, nopLogger())
	assert.Equal(t, directory.NewState(), r.Directory)
	assert.Equal(t, tm, r.Team)
	assert.Equal(t, []Slice{SliceTeam, SliceProjects}, r.Found)
}

func TestRestoreKeepsLoadingStatusVerbatim(t *testing.T) {
	// Normalization of a persisted loading status belongs to the engine.
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, DefaultKey, []byte(`{"version":1,"directory":{"people":null,"page":3,"status":"loading"}}`)))

	wl, _ := NewWhitelist("directory")
	r := Restore(ctx, store, DefaultKey, wl, nopLogger())
	assert.Equal(t, directory.StatusLoading, r.Directory.Status)
	assert.Equal(t, 3, r.Directory.Page)
	assert.NotNil(t, r.Directory.People)
}

func TestPersisterWritesLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := NewPersister(store, "", nopLogger())
	wl, _ := NewWhitelist()

	for i := 0; i < 5; i++ {
		p.Save(Build(wl, directory.NewState(), team.State{Members: make([]models.Person, i)}, projects.NewState()))
	}
	p.Flush(ctx)

	data, ok, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	snap, err := Decode(data)
	require.NoError(t, err)
	assert.Len(t, snap.Team.Members, 4)

	st := p.Stats()
	assert.Equal(t, uint64(5), st.Saved)
	assert.Equal(t, uint64(1), st.Written)
	assert.Zero(t, st.Failed)
}

func TestPersisterSaveDoesNotBlockOnSlowStorage(t *testing.T) {
	g := &gatedStorage{gate: make(chan struct{}), entered: make(chan struct{}, 4)}
	p := NewPersister(g, "k", nopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- p.Run(ctx) }()

	wl, _ := NewWhitelist()
	p.Save(Build(wl, directory.NewState(), team.NewState(), projects.State{List: []models.Project{{ID: "first"}}}))
	<-g.entered

	// The first write is stuck; these must return immediately and coalesce.
	returned := make(chan struct{})
	go func() {
		p.Save(Build(wl, directory.NewState(), team.NewState(), projects.State{List: []models.Project{{ID: "second"}}}))
		p.Save(Build(wl, directory.NewState(), team.NewState(), projects.State{List: []models.Project{{ID: "third"}}}))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Save blocked on storage")
	}

	close(g.gate)
	<-g.entered
	cancel()
	require.NoError(t, <-done)

	g.mu.Lock()
	defer g.mu.Unlock()
	require.Len(t, g.writes, 2)
	assert.True(t, bytes.Contains(g.writes[0], []byte(`"first"`)))
	assert.True(t, bytes.Contains(g.writes[1], []byte(`"third"`)))
}

func TestPersisterLogsWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	p := NewPersister(brokenStorage{setErr: errors.New("quota exceeded")}, "k", &logger)

	p.Save(Snapshot{Version: SnapshotVersion})
	p.Flush(context.Background())

	assert.Equal(t, uint64(1), p.Stats().Failed)
	assert.Contains(t, buf.String(), "quota exceeded")
	assert.Contains(t, buf.String(), "failed to write state snapshot")
}

func TestRunFlushesOnShutdown(t *testing.T) {
	store := memory.New()
	p := NewPersister(store, "k", nopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.Save(Snapshot{Version: SnapshotVersion})
	require.NoError(t, p.Run(ctx))

	_, ok, _ := store.Get(context.Background(), "k")
	assert.True(t, ok)
}
