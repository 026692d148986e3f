package handlers

import (
	"net/http"

	services "github.com/EO-DataHub/eodhp-staff-directory/api/services"
)

// GetProjects godoc
// @Summary List projects, most recent first
// @Tags projects
// @Produce json
// @Success 200 {object} models.Response{data=models.ProjectsResponse}
// @Router /projects [get]
func GetProjects(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetProjectsService(svc, w, r)
	}
}

// CreateProject godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body models.ProjectSpec true "project"
// @Success 201 {object} models.Response{data=models.ProjectResponse}
// @Failure 400 {object} models.Response
// @Router /projects [post]
func CreateProject(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateProjectService(svc, w, r)
	}
}

// GetProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param project-id path string true "project id"
// @Success 200 {object} models.Response{data=models.ProjectResponse}
// @Failure 404 {object} models.Response
// @Router /projects/{project-id} [get]
func GetProject(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetProjectService(svc, w, r)
	}
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags projects
// @Param project-id path string true "project id"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /projects/{project-id} [delete]
func DeleteProject(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.DeleteProjectService(svc, w, r)
	}
}

// GetPersonProjects godoc
// @Summary List the projects a person manages or belongs to
// @Tags projects
// @Produce json
// @Param person-id path string true "person id"
// @Success 200 {object} models.Response{data=models.ProjectsResponse}
// @Router /people/{person-id}/projects [get]
func GetPersonProjects(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetPersonProjectsService(svc, w, r)
	}
}
