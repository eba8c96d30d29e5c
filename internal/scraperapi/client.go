// Package scraperapi is the HTTP client for the external lead-scraping
// engine. It implements scrape.Engine.
package scraperapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/httpretry"
	"github.com/leadforge/leadforge/internal/service/scrape"
)

// Client is a scraper engine API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a scraper engine client from config.
func NewClient(cfg config.ScraperConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// Submit starts a scraping job and returns the engine's job ID.
func (c *Client) Submit(ctx context.Context, req scrape.EngineRequest) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/jobs", submitRequest{
		Query:      req.Query,
		Location:   req.Location,
		MaxResults: req.MaxResults,
	})
	if err != nil {
		return "", err
	}
	var out submitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parsing submit response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("engine returned no job id")
	}
	return out.JobID, nil
}

// Status returns the engine's view of a job.
func (c *Client) Status(ctx context.Context, engineJobID string) (*scrape.EngineJobState, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/"+engineJobID, nil)
	if err != nil {
		return nil, err
	}
	var out jobStatusResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing status response: %w", err)
	}
	return &scrape.EngineJobState{
		Status:     mapStatus(out.Status),
		LeadsFound: out.LeadsFound,
		Error:      out.Error,
	}, nil
}

// Results fetches a completed job's leads.
func (c *Client) Results(ctx context.Context, engineJobID string) ([]scrape.EngineLead, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/"+engineJobID+"/results", nil)
	if err != nil {
		return nil, err
	}
	var out resultsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing results response: %w", err)
	}
	leads := make([]scrape.EngineLead, 0, len(out.Leads))
	for _, l := range out.Leads {
		leads = append(leads, scrape.EngineLead{
			CompanyName:        l.CompanyName,
			Website:            l.Website,
			CompanyLinkedInURL: l.CompanyLinkedInURL,
			FirstName:          l.FirstName,
			LastName:           l.LastName,
			Email:              l.Email,
		})
	}
	return leads, nil
}

// Cancel stops a running job.
func (c *Client) Cancel(ctx context.Context, engineJobID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/jobs/"+engineJobID+"/cancel", nil)
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("engine error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// mapStatus translates engine status strings. Unknown values are treated
// as still running so the poller keeps watching instead of settling
// credits on a state it doesn't understand.
func mapStatus(s string) domain.ScrapeJobStatus {
	switch s {
	case "queued", "pending":
		return domain.JobQueued
	case "running", "in_progress":
		return domain.JobRunning
	case "completed", "done":
		return domain.JobCompleted
	case "failed", "error":
		return domain.JobFailed
	case "cancelled":
		return domain.JobCancelled
	default:
		return domain.JobRunning
	}
}
