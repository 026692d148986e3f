package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/store"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func GetProjectsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	HandleSuccessResponse(w, http.StatusOK, models.ProjectsResponse{Projects: svc.Store.Projects()})
}

// CreateProjectService validates and stores a new project. Members without a
// role get the default role.
func CreateProjectService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var spec models.ProjectSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}

	if strings.TrimSpace(spec.Name) == "" {
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("%w: project name is required", errInvalidBody))
		return
	}
	if spec.Manager == nil || spec.Manager.ID == "" {
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("%w: project manager is required", errInvalidBody))
		return
	}
	for i := range spec.Members {
		if spec.Members[i].Role == "" {
			spec.Members[i].Role = models.DefaultMemberRole
		}
	}

	project := svc.Store.CreateProject(spec)

	logger.Info().Str("project_id", project.ID).Msg("Project created successfully")
	location := fmt.Sprintf("%s/%s", r.URL.Path, project.ID)
	HandleSuccessResponse(w, http.StatusCreated, models.ProjectResponse{Project: project}, location)
}

func GetProjectService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	id := mux.Vars(r)["project-id"]

	project, ok := svc.Store.Project(id)
	if !ok {
		logger.Warn().Str("project_id", id).Msg("Project not found")
		HandleErrResponse(w, http.StatusNotFound, fmt.Errorf("project %s: %w", id, store.ErrNotFound))
		return
	}
	HandleSuccessResponse(w, http.StatusOK, models.ProjectResponse{Project: project})
}

func DeleteProjectService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	id := mux.Vars(r)["project-id"]

	if !svc.Store.DeleteProject(id) {
		logger.Warn().Str("project_id", id).Msg("Project not found")
		HandleErrResponse(w, http.StatusNotFound, fmt.Errorf("project %s: %w", id, store.ErrNotFound))
		return
	}

	logger.Info().Str("project_id", id).Msg("Project deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// GetPersonProjectsService lists the projects a person manages or belongs to.
func GetPersonProjectsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["person-id"]
	HandleSuccessResponse(w, http.StatusOK, models.ProjectsResponse{Projects: svc.Store.ProjectsFor(id)})
}
