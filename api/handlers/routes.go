package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-staff-directory/api/middleware"
	services "github.com/EO-DataHub/eodhp-staff-directory/api/services"
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the API under prefix.
func RegisterRoutes(r *mux.Router, prefix string, svc *services.Service) {
	api := r.PathPrefix(prefix).Subrouter()

	// Apply the middleware to the API routes
	api.Use(middleware.WithLogger)

	// Directory routes
	api.HandleFunc("/directory", GetDirectory(svc)).Methods(http.MethodGet)
	api.HandleFunc("/directory", ResetDirectory(svc)).Methods(http.MethodDelete)
	api.HandleFunc("/directory/next", RequestNextPage(svc)).Methods(http.MethodPost)
	api.HandleFunc("/directory/refresh", RefreshDirectory(svc)).Methods(http.MethodPost)
	api.HandleFunc("/departments", GetDepartments(svc)).Methods(http.MethodGet)

	// Team routes
	api.HandleFunc("/team", GetTeam(svc)).Methods(http.MethodGet)
	api.HandleFunc("/team/toggle", ToggleTeam(svc)).Methods(http.MethodPost)
	api.HandleFunc("/team/{person-id}", GetTeamMember(svc)).Methods(http.MethodGet)
	api.HandleFunc("/team/{person-id}", RemoveTeamMember(svc)).Methods(http.MethodDelete)

	// Project routes
	api.HandleFunc("/projects", GetProjects(svc)).Methods(http.MethodGet)
	api.HandleFunc("/projects", CreateProject(svc)).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project-id}", GetProject(svc)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project-id}", DeleteProject(svc)).Methods(http.MethodDelete)
	api.HandleFunc("/people/{person-id}/projects", GetPersonProjects(svc)).Methods(http.MethodGet)
}
