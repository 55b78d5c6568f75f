package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/homescout/homescout/internal/telemetry"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Doer abstracts the HTTP client so tests can substitute a mock.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service resolves free-form addresses to coordinates via the Google
// Geocoding API. Results are not cached; every call is a network round trip.
type Service struct {
	client  Doer
	apiKey  string
	baseURL string
}

// NewService creates a geocoding service with a per-call HTTP timeout.
func NewService(apiKey string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		client:  &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// Resolve geocodes one address. It never returns a Go error: transport
// failures come back as a Result with status "ERROR", provider rejections
// carry the provider's status and message.
func (s *Service) Resolve(ctx context.Context, address string) Result {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "geocode_resolve",
		"address":   address,
		"service":   "geocoding",
	})

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logger.WithError(err).Error("Failed to build geocoding request")
		return Result{Status: StatusError, ErrorMessage: err.Error()}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.WithError(err).Warn("Geocoding request failed")
		return Result{Status: StatusError, ErrorMessage: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.WithField("status_code", resp.StatusCode).Warn("Geocoding provider returned non-200")
		return Result{Status: StatusError, ErrorMessage: fmt.Sprintf("geocoding API error: %s", resp.Status)}
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		logger.WithError(err).Warn("Failed to decode geocoding response")
		return Result{Status: StatusError, ErrorMessage: err.Error()}
	}

	if decoded.Status != StatusOK || len(decoded.Results) == 0 {
		message := decoded.ErrorMessage
		if message == "" {
			message = fmt.Sprintf("no results for address: %s", address)
		}
		status := decoded.Status
		if status == "" || status == StatusOK {
			// OK with an empty results array still fails to resolve.
			status = "ZERO_RESULTS"
		}
		logger.WithField("provider_status", status).Debug("Address did not resolve")
		return Result{Status: status, ErrorMessage: message}
	}

	first := decoded.Results[0]
	logger.Debug("Address resolved")
	return Result{
		Status:           StatusOK,
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}
}
