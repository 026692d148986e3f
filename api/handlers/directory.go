package handlers

import (
	"net/http"

	services "github.com/EO-DataHub/eodhp-staff-directory/api/services"
)

// GetDirectory godoc
// @Summary List the directory
// @Description Returns the cached directory, filtered by name or department.
// @Tags directory
// @Produce json
// @Param q query string false "case-insensitive name or department search"
// @Param department query string false "exact department"
// @Success 200 {object} models.Response{data=models.DirectoryResponse}
// @Router /directory [get]
func GetDirectory(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetDirectoryService(svc, w, r)
	}
}

// RequestNextPage godoc
// @Summary Fetch the next directory page
// @Tags directory
// @Produce json
// @Success 200 {object} models.Response{data=models.DirectoryResponse}
// @Failure 409 {object} models.Response "a fetch is already in flight"
// @Failure 502 {object} models.Response "the provider failed"
// @Failure 503 {object} models.Response "the provider is unreachable"
// @Router /directory/next [post]
func RequestNextPage(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RequestNextPageService(svc, w, r)
	}
}

// RefreshDirectory godoc
// @Summary Reset the directory and fetch the first page
// @Tags directory
// @Produce json
// @Success 200 {object} models.Response{data=models.DirectoryResponse}
// @Failure 502 {object} models.Response
// @Failure 503 {object} models.Response
// @Router /directory/refresh [post]
func RefreshDirectory(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RefreshDirectoryService(svc, w, r)
	}
}

// ResetDirectory godoc
// @Summary Empty the directory
// @Tags directory
// @Success 204
// @Router /directory [delete]
func ResetDirectory(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ResetDirectoryService(svc, w, r)
	}
}

// GetDepartments godoc
// @Summary List departments with head counts
// @Tags directory
// @Produce json
// @Success 200 {object} models.Response{data=models.DepartmentsResponse}
// @Router /departments [get]
func GetDepartments(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetDepartmentsService(svc, w, r)
	}
}
