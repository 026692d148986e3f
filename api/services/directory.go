package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/directory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/query"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/rs/zerolog"
)

func directoryResponse(st directory.State, people []models.Person) models.DirectoryResponse {
	return models.DirectoryResponse{
		Status:   string(st.Status),
		NextPage: st.Page,
		Error:    st.Error,
		Total:    len(st.People),
		People:   people,
	}
}

// GetDirectoryService returns the directory, optionally filtered by the q
// and department query parameters.
func GetDirectoryService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	st := svc.Store.Directory()
	people := query.Search(st.People, r.URL.Query().Get("q"))
	if dept := r.URL.Query().Get("department"); dept != "" {
		people = query.ByDepartment(people, dept)
	}

	logger.Debug().Int("matched", len(people)).Int("total", len(st.People)).Msg("Directory retrieved")
	HandleSuccessResponse(w, http.StatusOK, directoryResponse(st, people))
}

// RequestNextPageService fetches the page at the directory cursor.
func RequestNextPageService(svc *Service, w http.ResponseWriter, r *http.Request) {
	runFetch(svc, w, r, svc.Store.RequestNextPage)
}

// RefreshDirectoryService empties the directory and fetches the first page.
func RefreshDirectoryService(svc *Service, w http.ResponseWriter, r *http.Request) {
	runFetch(svc, w, r, svc.Store.Refresh)
}

func runFetch(svc *Service, w http.ResponseWriter, r *http.Request, fetch func(context.Context) error) {

	logger := zerolog.Ctx(r.Context())

	// Callers check reachability; the engine does not.
	if !svc.Connectivity.Reachable() {
		logger.Warn().Msg("Provider unreachable, not fetching")
		HandleErrResponse(w, http.StatusServiceUnavailable, errUnreachable)
		return
	}

	err := fetch(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, directory.ErrFetchInFlight), errors.Is(err, directory.ErrFetchDiscarded):
		logger.Info().Err(err).Msg("Directory fetch not applied")
		HandleErrResponse(w, http.StatusConflict, err)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client went away; the fetch still completes in the background.
		logger.Info().Err(err).Msg("Stopped waiting for directory fetch")
		HandleErrResponse(w, http.StatusAccepted, err)
		return
	default:
		logger.Error().Err(err).Msg("Directory fetch failed")
		HandleErrResponse(w, http.StatusBadGateway, err)
		return
	}

	st := svc.Store.Directory()
	logger.Info().Int("people", len(st.People)).Int("next_page", st.Page).Msg("Directory page merged")
	HandleSuccessResponse(w, http.StatusOK, directoryResponse(st, st.People))
}

// ResetDirectoryService empties the directory and rewinds the cursor.
func ResetDirectoryService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	svc.Store.ResetDirectory()

	logger.Info().Msg("Directory reset")
	WriteResponse(w, http.StatusNoContent, nil)
}

// GetDepartmentsService lists departments present in the directory.
func GetDepartmentsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	HandleSuccessResponse(w, http.StatusOK, models.DepartmentsResponse{Departments: svc.Store.Departments()})
}
