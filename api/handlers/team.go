package handlers

import (
	"net/http"

	services "github.com/EO-DataHub/eodhp-staff-directory/api/services"
)

// GetTeam godoc
// @Summary List team members in the order they were added
// @Tags team
// @Produce json
// @Success 200 {object} models.Response{data=models.TeamResponse}
// @Router /team [get]
func GetTeam(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetTeamService(svc, w, r)
	}
}

// ToggleTeam godoc
// @Summary Add or remove a person from the team
// @Tags team
// @Accept json
// @Produce json
// @Param request body models.TeamToggleRequest true "person or directory id"
// @Success 200 {object} models.Response{data=models.TeamToggleResponse}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /team/toggle [post]
func ToggleTeam(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ToggleTeamService(svc, w, r)
	}
}

// GetTeamMember godoc
// @Summary Check team membership
// @Tags team
// @Produce json
// @Param person-id path string true "person id"
// @Success 200 {object} models.Response{data=models.MembershipResponse}
// @Router /team/{person-id} [get]
func GetTeamMember(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetTeamMemberService(svc, w, r)
	}
}

// RemoveTeamMember godoc
// @Summary Remove a person from the team
// @Tags team
// @Param person-id path string true "person id"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /team/{person-id} [delete]
func RemoveTeamMember(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RemoveTeamMemberService(svc, w, r)
	}
}
