package smartlead

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLeads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campaigns/camp-9/leads", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))

		var req addLeadsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.LeadList, 2)

		json.NewEncoder(w).Encode(addLeadsResponse{OK: true, UploadCount: 2})
	}))
	defer server.Close()

	client := &Client{
		baseURL:    server.URL,
		apiKey:     "test-api-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	added, err := client.AddLeads(context.Background(), "camp-9", []Lead{
		{Email: "a@x.com"}, {Email: "b@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestAddLeadsRejectedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(addLeadsResponse{OK: false})
	}))
	defer server.Close()

	client := &Client{
		baseURL:    server.URL,
		apiKey:     "k",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	_, err := client.AddLeads(context.Background(), "camp-9", []Lead{{Email: "a@x.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestAddLeadsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := &Client{
		baseURL:    server.URL,
		apiKey:     "bad",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	_, err := client.AddLeads(context.Background(), "camp-9", []Lead{{Email: "a@x.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
