package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/store"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func GetTeamService(svc *Service, w http.ResponseWriter, r *http.Request) {
	HandleSuccessResponse(w, http.StatusOK, models.TeamResponse{Members: svc.Store.Team()})
}

// ToggleTeamService adds or removes a person. The body carries either the
// full person or just an identifier to look up in the directory.
func ToggleTeamService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var req models.TeamToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}

	var resp models.TeamToggleResponse
	switch {
	case req.Person != nil && req.Person.ID != "":
		resp.Person = *req.Person
		resp.Outcome = string(svc.Store.ToggleTeam(resp.Person))
	case req.ID != "":
		outcome, person, err := svc.Store.ToggleTeamByID(req.ID)
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn().Str("person_id", req.ID).Msg("Person not in directory")
			HandleErrResponse(w, http.StatusNotFound, fmt.Errorf("person %s: %w", req.ID, err))
			return
		}
		resp.Person = person
		resp.Outcome = string(outcome)
	default:
		logger.Warn().Msg("Toggle request without person or id")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("%w: person or id required", errInvalidBody))
		return
	}

	logger.Info().Str("person_id", resp.Person.ID).Str("outcome", resp.Outcome).Msg("Team toggled")
	HandleSuccessResponse(w, http.StatusOK, resp)
}

// GetTeamMemberService reports whether the person is on the team.
func GetTeamMemberService(svc *Service, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["person-id"]
	HandleSuccessResponse(w, http.StatusOK, models.MembershipResponse{ID: id, Member: svc.Store.IsTeamMember(id)})
}

func RemoveTeamMemberService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	id := mux.Vars(r)["person-id"]

	if !svc.Store.RemoveFromTeam(id) {
		logger.Warn().Str("person_id", id).Msg("Team member not found")
		HandleErrResponse(w, http.StatusNotFound, fmt.Errorf("team member %s: %w", id, store.ErrNotFound))
		return
	}

	logger.Info().Str("person_id", id).Msg("Team member removed")
	WriteResponse(w, http.StatusNoContent, nil)
}
