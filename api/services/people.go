package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-staff-directory/models"
)

// peopleFields limits the provider response to the fields we keep.
const peopleFields = "login,name,email,phone,location,picture"

// PeopleClient fetches pages of people from a randomuser-compatible API.
type PeopleClient struct {
	BaseURL    string
	Seed       string
	PageSize   int
	HTTPClient *http.Client
}

type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewPeopleClient creates a new instance of PeopleClient.
func NewPeopleClient(baseURL, seed string, pageSize int, timeout time.Duration) *PeopleClient {
	return &PeopleClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Seed:       seed,
		PageSize:   pageSize,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// FetchPeople retrieves one page. The seed keeps pages stable between calls.
func (pc *PeopleClient) FetchPeople(ctx context.Context, page int) ([]models.RawPerson, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("results", strconv.Itoa(pc.PageSize))
	q.Set("seed", pc.Seed)
	q.Set("inc", peopleFields)

	respBody, _, err := pc.makeRequest(ctx, http.MethodGet, pc.BaseURL+"/?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var body models.PeoplePage
	if err := json.Unmarshal(respBody, &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Error != "" {
		return nil, &HTTPError{Message: body.Error, Status: http.StatusBadGateway}
	}

	return body.Results, nil
}

// Helper function for making HTTP requests to the people API.
func (pc *PeopleClient) makeRequest(ctx context.Context, method, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := pc.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		msg := fmt.Sprintf("error response: status %d", resp.StatusCode)
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &body) == nil && body.Error != "" {
			msg = body.Error
		}
		return respBody, resp.StatusCode, &HTTPError{Message: msg, Status: resp.StatusCode}
	}

	return respBody, resp.StatusCode, nil
}
