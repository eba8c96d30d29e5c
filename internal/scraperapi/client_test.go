package scraperapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		baseURL: server.URL,
		apiKey:  "test-api-key",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func TestNewClient(t *testing.T) {
	cfg := config.ScraperConfig{
		APIKey:         "test-key",
		BaseURL:        "https://engine.example.com/api/v1",
		TimeoutSeconds: 30,
	}

	client := NewClient(cfg)

	assert.NotNil(t, client)
	assert.Equal(t, "test-key", client.apiKey)
	assert.Equal(t, "https://engine.example.com/api/v1", client.baseURL)
}

func TestSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "plumbers", req.Query)
		assert.Equal(t, 25, req.MaxResults)

		json.NewEncoder(w).Encode(submitResponse{JobID: "eng-42"})
	}))
	defer server.Close()

	client := newTestClient(server)
	id, err := client.Submit(context.Background(), scrape.EngineRequest{
		Query:      "plumbers",
		Location:   "Austin, TX",
		MaxResults: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "eng-42", id)
}

func TestSubmitEmptyJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(submitResponse{})
	}))
	defer server.Close()

	_, err := newTestClient(server).Submit(context.Background(), scrape.EngineRequest{Query: "x", MaxResults: 1})
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/eng-42", r.URL.Path)
		json.NewEncoder(w).Encode(jobStatusResponse{
			JobID:      "eng-42",
			Status:     "in_progress",
			LeadsFound: 7,
		})
	}))
	defer server.Close()

	state, err := newTestClient(server).Status(context.Background(), "eng-42")
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, state.Status)
	assert.Equal(t, 7, state.LeadsFound)
}

func TestResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/eng-42/results", r.URL.Path)
		json.NewEncoder(w).Encode(resultsResponse{
			JobID: "eng-42",
			Leads: []resultLead{
				{CompanyName: "Acme", Website: "acme.com", Email: "jo@acme.com"},
				{CompanyName: "Globex"},
			},
		})
	}))
	defer server.Close()

	leads, err := newTestClient(server).Results(context.Background(), "eng-42")
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Acme", leads[0].CompanyName)
	assert.Equal(t, "jo@acme.com", leads[0].Email)
}

func TestCancel(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs/eng-42/cancel", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, newTestClient(server).Cancel(context.Background(), "eng-42"))
	assert.True(t, called)
}

func TestServerErrorSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server).Status(context.Background(), "eng-42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "403")
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ScrapeJobStatus
	}{
		{"queued", domain.JobQueued},
		{"pending", domain.JobQueued},
		{"running", domain.JobRunning},
		{"completed", domain.JobCompleted},
		{"done", domain.JobCompleted},
		{"failed", domain.JobFailed},
		{"error", domain.JobFailed},
		{"cancelled", domain.JobCancelled},
		{"something_new", domain.JobRunning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapStatus(tt.in), tt.in)
	}
}
