package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer serves a scripted sequence of text-search pages and records
// every request it receives.
type pagedServer struct {
	mu       sync.Mutex
	pages    []textSearchResponse
	statuses []int
	requests []*http.Request
}

func (p *pagedServer) handler(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	n := len(p.requests)
	p.requests = append(p.requests, r.Clone(context.Background()))
	p.mu.Unlock()

	if n < len(p.statuses) && p.statuses[n] != 0 {
		w.WriteHeader(p.statuses[n])
		return
	}
	if n >= len(p.pages) {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p.pages[n])
}

func (p *pagedServer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func newTestClient(t *testing.T, ps *pagedServer) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(ps.handler))
	t.Cleanup(server.Close)

	c := NewClient("test-key", time.Second, time.Millisecond)
	c.baseURL = server.URL
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func page(status, nextToken string, names ...string) textSearchResponse {
	resp := textSearchResponse{Status: status, NextPageToken: nextToken}
	for i, name := range names {
		resp.Results = append(resp.Results, textSearchResult{
			Name:             name,
			FormattedAddress: name + " Street 1, Haifa",
			PlaceID:          fmt.Sprintf("place-%d", i),
		})
	}
	return resp
}

func TestSearch_SinglePage(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		page("OK", "", "Alpha School", "Beta School"),
	}}
	c := newTestClient(t, ps)

	pois, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	require.Len(t, pois, 2)
	assert.Equal(t, "Alpha School", pois[0].Name)
	assert.Equal(t, 1, ps.count())

	q := ps.requests[0].URL.Query()
	assert.Equal(t, "elementary school in Haifa", q.Get("query"))
	assert.Equal(t, "test-key", q.Get("key"))
	assert.Empty(t, q.Get("pagetoken"))
}

func TestSearch_FollowsContinuationTokens(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		page("OK", "token-1", "Alpha"),
		page("OK", "token-2", "Beta"),
		page("OK", "", "Gamma"),
	}}
	c := newTestClient(t, ps)

	pois, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	require.Len(t, pois, 3)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, []string{pois[0].Name, pois[1].Name, pois[2].Name})
	assert.Equal(t, 3, ps.count())

	assert.Equal(t, "token-1", ps.requests[1].URL.Query().Get("pagetoken"))
	assert.Equal(t, "token-2", ps.requests[2].URL.Query().Get("pagetoken"))
}

func TestSearch_StopsAtThreeRequestsEvenWithMoreTokens(t *testing.T) {
	// Every page advertises another token; the request cap must win.
	ps := &pagedServer{pages: []textSearchResponse{
		page("OK", "token-1", "Alpha"),
		page("OK", "token-2", "Beta"),
		page("OK", "token-3", "Gamma"),
		page("OK", "", "Delta"),
	}}
	c := newTestClient(t, ps)

	pois, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	assert.Len(t, pois, 3)
	assert.Equal(t, 3, ps.count())
}

func TestSearch_FirstPageFailurePropagates(t *testing.T) {
	ps := &pagedServer{statuses: []int{http.StatusInternalServerError}}
	c := newTestClient(t, ps)

	_, err := c.Search(context.Background(), "elementary school", "Haifa")
	assert.Error(t, err)
}

func TestSearch_FirstPageRejectionPropagates(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		{Status: "REQUEST_DENIED", ErrorMessage: "The provided API key is invalid."},
	}}
	c := newTestClient(t, ps)

	_, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestSearch_LaterPageFailureDegradesToPartial(t *testing.T) {
	ps := &pagedServer{
		pages:    []textSearchResponse{page("OK", "token-1", "Alpha", "Beta")},
		statuses: []int{0, http.StatusInternalServerError},
	}
	c := newTestClient(t, ps)

	pois, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	assert.Len(t, pois, 2)
}

func TestSearch_LaterPageRejectionDegradesToPartial(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		page("OK", "token-1", "Alpha"),
		{Status: "INVALID_REQUEST"},
	}}
	c := newTestClient(t, ps)

	pois, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	assert.Len(t, pois, 1)
}

func TestSearch_ZeroResultsIsEmptyNotError(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		{Status: "ZERO_RESULTS"},
	}}
	c := newTestClient(t, ps)

	pois, err := c.Search(context.Background(), "elementary school", "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, pois)
}

func TestSearch_BackoffOnlyBeforeContinuationRequests(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		page("OK", "token-1", "Alpha"),
		page("OK", "", "Beta"),
	}}
	c := newTestClient(t, ps)

	var sleeps int
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		assert.Equal(t, time.Millisecond, d)
		return nil
	}

	_, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	assert.Equal(t, 1, sleeps)
}

func TestSearch_CanceledDuringBackoffReturnsPartial(t *testing.T) {
	ps := &pagedServer{pages: []textSearchResponse{
		page("OK", "token-1", "Alpha"),
	}}
	c := newTestClient(t, ps)
	c.sleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }

	pois, err := c.Search(context.Background(), "elementary school", "Haifa")
	require.NoError(t, err)
	assert.Len(t, pois, 1)
	assert.Equal(t, 1, ps.count())
}
