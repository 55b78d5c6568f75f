package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/homescout/homescout/internal/telemetry"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// Pagination policy for the places provider. A continuation token only
// becomes usable after a short delay, and the request count is capped to
// bound worst-case latency and cost.
const (
	maxSearchRequests        = 3
	DefaultPaginationBackoff = 2 * time.Second
)

// Doer abstracts the HTTP client so tests can substitute a mock.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues paginated text searches against the places provider.
type Client struct {
	client  Doer
	apiKey  string
	baseURL string
	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient creates a places client. backoff is the wait before each
// continuation-token request; pass 0 for the provider default.
func NewClient(apiKey string, timeout, backoff time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if backoff <= 0 {
		backoff = DefaultPaginationBackoff
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		backoff: backoff,
		sleep:   sleepContext,
	}
}

// Search runs a text search for "<query> in <location>" and follows up to two
// continuation tokens, issuing at most three requests. Results come back in
// provider order. A non-OK status after the first page degrades to whatever
// was accumulated; a first-page failure propagates.
func (c *Client) Search(ctx context.Context, query, location string) ([]POI, error) {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "places_search",
		"query":     query,
		"location":  location,
		"service":   "places",
	})

	var pois []POI
	pageToken := ""

	for request := 1; request <= maxSearchRequests; request++ {
		if pageToken != "" {
			// The provider rejects a continuation token used too soon.
			if err := c.sleep(ctx, c.backoff); err != nil {
				logger.WithError(err).Warn("Pagination wait canceled, returning partial results")
				return pois, nil
			}
		}

		page, err := c.fetchPage(ctx, query, location, pageToken)
		if err != nil {
			if request == 1 {
				logger.WithError(err).Error("First search page failed")
				return nil, err
			}
			logger.WithError(err).WithField("request", request).
				Warn("Search page failed, returning partial results")
			return pois, nil
		}

		if page.Status != "OK" && page.Status != "ZERO_RESULTS" {
			if request == 1 {
				err := fmt.Errorf("places API status %s: %s", page.Status, page.ErrorMessage)
				logger.WithError(err).Error("First search page rejected")
				return nil, err
			}
			logger.WithFields(map[string]interface{}{
				"provider_status": page.Status,
				"request":         request,
			}).Warn("Search pagination aborted, returning partial results")
			return pois, nil
		}

		for _, r := range page.Results {
			pois = append(pois, POI{
				Name:      r.Name,
				Address:   r.FormattedAddress,
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
				PlaceID:   r.PlaceID,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	logger.WithField("result_count", len(pois)).Debug("Search complete")
	return pois, nil
}

func (c *Client) fetchPage(ctx context.Context, query, location, pageToken string) (*textSearchResponse, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s in %s", query, location))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API error: %s", resp.Status)
	}

	var decoded textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse places response: %w", err)
	}
	return &decoded, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
