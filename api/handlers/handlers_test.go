package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	services "github.com/EO-DataHub/eodhp-staff-directory/api/services"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/connectivity"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/projects"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/memory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/store"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) FetchPeople(ctx context.Context, page int) ([]models.RawPerson, error) {
	args := m.Called(ctx, page)
	raws, _ := args.Get(0).([]models.RawPerson)
	return raws, args.Error(1)
}

func raw(id, first, last string) models.RawPerson {
	return models.RawPerson{Login: models.RawLogin{UUID: id}, Name: models.RawName{First: first, Last: last}}
}

type envelope struct {
	Success      int             `json:"success"`
	ErrorCode    string          `json:"error_code"`
	ErrorDetails string          `json:"error_details"`
	Data         json.RawMessage `json:"data"`
}

func setUp(t *testing.T, p *MockProvider, reachable bool) (*mux.Router, *store.Store) {
	t.Helper()
	logger := zerolog.Nop()
	s := store.Open(context.Background(), memory.New(), p,
		store.WithLogger(&logger),
		store.WithProjectOptions(projects.WithIDGenerator(func() string { return "proj-1" })),
	)
	svc := &services.Service{Store: s, Connectivity: connectivity.Static(reachable)}
	r := mux.NewRouter()
	RegisterRoutes(r, "/api", svc)
	return r, s
}

func do(t *testing.T, r http.Handler, method, url string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestDirectoryNextAndFilter(t *testing.T) {
	p := &MockProvider{}
	p.On("FetchPeople", mock.Anything, 1).Return([]models.RawPerson{
		raw("u1", "Ada", "Lovelace"), raw("u2", "Grace", "Hopper"),
	}, nil)
	r, _ := setUp(t, p, true)

	rr, env := do(t, r, http.MethodPost, "/api/directory/next", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, env.Success)
	dir := decode[models.DirectoryResponse](t, env.Data)
	assert.Equal(t, "succeeded", dir.Status)
	assert.Equal(t, 2, dir.NextPage)
	assert.Len(t, dir.People, 2)

	rr, env = do(t, r, http.MethodGet, "/api/directory?q=hop", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	dir = decode[models.DirectoryResponse](t, env.Data)
	assert.Equal(t, 2, dir.Total)
	require.Len(t, dir.People, 1)
	assert.Equal(t, "u2", dir.People[0].ID)
	assert.Equal(t, "max-age=0", rr.Header().Get("Cache-Control"))

	rr, env = do(t, r, http.MethodGet, "/api/departments", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	depts := decode[models.DepartmentsResponse](t, env.Data)
	total := 0
	for _, d := range depts.Departments {
		total += d.Count
	}
	assert.Equal(t, 2, total)
}

func TestDirectoryNextUnreachable(t *testing.T) {
	p := &MockProvider{}
	r, _ := setUp(t, p, false)

	rr, env := do(t, r, http.MethodPost, "/api/directory/next", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "provider_unreachable", env.ErrorCode)
	p.AssertNotCalled(t, "FetchPeople", mock.Anything, mock.Anything)
}

func TestDirectoryNextProviderFailure(t *testing.T) {
	p := &MockProvider{}
	p.On("FetchPeople", mock.Anything, 1).Return(nil, &services.HTTPError{Message: "upstream 500", Status: 500})
	r, s := setUp(t, p, true)

	rr, env := do(t, r, http.MethodPost, "/api/directory/next", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "provider_error", env.ErrorCode)
	assert.Equal(t, "upstream 500", env.ErrorDetails)
	assert.Equal(t, "failed", string(s.Directory().Status))
}

func TestDirectoryNextWhileInFlight(t *testing.T) {
	release := make(chan time.Time)
	p := &MockProvider{}
	p.On("FetchPeople", mock.Anything, 1).WaitUntil(release).Return([]models.RawPerson{raw("u1", "Ada", "L")}, nil).Once()
	r, s := setUp(t, p, true)

	done := make(chan int)
	go func() {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/directory/next", nil))
		done <- rr.Code
	}()
	assert.Eventually(t, func() bool { return s.Directory().Status == "loading" }, time.Second, time.Millisecond)

	rr, env := do(t, r, http.MethodPost, "/api/directory/next", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "fetch_in_flight", env.ErrorCode)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestRefreshAndReset(t *testing.T) {
	p := &MockProvider{}
	p.On("FetchPeople", mock.Anything, 1).Return([]models.RawPerson{raw("u1", "Ada", "L")}, nil)
	r, s := setUp(t, p, true)

	rr, _ := do(t, r, http.MethodPost, "/api/directory/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, s.Directory().People, 1)

	rr, _ = do(t, r, http.MethodDelete, "/api/directory", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, s.Directory().People)
	assert.Equal(t, 1, s.NextPage())
}

func TestTeamRoutes(t *testing.T) {
	p := &MockProvider{}
	p.On("FetchPeople", mock.Anything, 1).Return([]models.RawPerson{raw("u1", "Ada", "L")}, nil)
	r, s := setUp(t, p, true)
	require.NoError(t, s.RequestNextPage(context.Background()))

	rr, env := do(t, r, http.MethodPost, "/api/team/toggle", models.TeamToggleRequest{ID: "u1"})
	require.Equal(t, http.StatusOK, rr.Code)
	toggled := decode[models.TeamToggleResponse](t, env.Data)
	assert.Equal(t, "added", toggled.Outcome)
	assert.Equal(t, "Ada", toggled.Person.FirstName)

	outsider := models.Person{ID: "x9", FirstName: "Xi"}
	rr, env = do(t, r, http.MethodPost, "/api/team/toggle", models.TeamToggleRequest{Person: &outsider})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "added", decode[models.TeamToggleResponse](t, env.Data).Outcome)

	rr, env = do(t, r, http.MethodGet, "/api/team", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	team := decode[models.TeamResponse](t, env.Data)
	require.Len(t, team.Members, 2)
	assert.Equal(t, "u1", team.Members[0].ID)

	rr, env = do(t, r, http.MethodGet, "/api/team/x9", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[models.MembershipResponse](t, env.Data).Member)

	rr, _ = do(t, r, http.MethodDelete, "/api/team/x9", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr, env = do(t, r, http.MethodDelete, "/api/team/x9", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", env.ErrorCode)

	rr, _ = do(t, r, http.MethodPost, "/api/team/toggle", models.TeamToggleRequest{ID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr, env = do(t, r, http.MethodPost, "/api/team/toggle", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_request", env.ErrorCode)
}

func TestProjectRoutes(t *testing.T) {
	r, _ := setUp(t, &MockProvider{}, true)
	mgr := models.Person{ID: "m1", FirstName: "Mo"}
	dev := models.Person{ID: "d1", FirstName: "Di"}

	rr, env := do(t, r, http.MethodPost, "/api/projects", models.ProjectSpec{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.ErrorDetails, "name")

	rr, env = do(t, r, http.MethodPost, "/api/projects", models.ProjectSpec{Name: "Apollo"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.ErrorDetails, "manager")

	rr, env = do(t, r, http.MethodPost, "/api/projects", models.ProjectSpec{
		Name: "Apollo", Manager: &mgr, Members: []models.ProjectMember{{Person: dev}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/projects/proj-1", rr.Header().Get("Location"))
	created := decode[models.ProjectResponse](t, env.Data).Project
	assert.Equal(t, models.DefaultMemberRole, created.Members[0].Role)

	rr, env = do(t, r, http.MethodGet, "/api/projects/proj-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Apollo", decode[models.ProjectResponse](t, env.Data).Project.Name)

	rr, env = do(t, r, http.MethodGet, "/api/people/d1/projects", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[models.ProjectsResponse](t, env.Data).Projects, 1)

	rr, _ = do(t, r, http.MethodDelete, "/api/projects/proj-1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr, _ = do(t, r, http.MethodGet, "/api/projects/proj-1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, env = do(t, r, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[models.ProjectsResponse](t, env.Data).Projects)
}

func TestHandleErrResponseForUnknownError(t *testing.T) {
	rr := httptest.NewRecorder()
	services.HandleErrResponse(rr, http.StatusInternalServerError, errors.New("boom"))

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, 0, env.Success)
	assert.Empty(t, env.ErrorCode)
	assert.Equal(t, "boom", env.ErrorDetails)
}
