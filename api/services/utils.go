package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/directory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/store"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
)

var (
	errUnreachable = errors.New("person provider is unreachable")
	errInvalidBody = errors.New("invalid request payload")
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleErrResponse writes err inside the standard response envelope.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	WriteResponse(w, statusCode, models.Response{
		Success:      0,
		ErrorCode:    errorCode(err),
		ErrorDetails: err.Error(),
	})
}

func HandleSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}, location ...string) {
	WriteResponse(w, statusCode, models.Response{Success: 1, Data: data}, location...)
}

func errorCode(err error) string {
	var httpErr *HTTPError
	switch {
	case errors.Is(err, directory.ErrFetchInFlight):
		return "fetch_in_flight"
	case errors.Is(err, directory.ErrFetchDiscarded):
		return "fetch_discarded"
	case errors.Is(err, errUnreachable):
		return "provider_unreachable"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, errInvalidBody):
		return "invalid_request"
	case errors.As(err, &httpErr):
		return "provider_error"
	default:
		return ""
	}
}
