// Package plusvibe is the HTTP client for the PlusVibe campaign API.
package plusvibe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/pkg/httpretry"
)

// Client is a PlusVibe API client. Every call is scoped to a workspace.
type Client struct {
	baseURL     string
	apiKey      string
	workspaceID string
	httpClient  httpretry.HTTPDoer
}

// NewClient creates a PlusVibe client from config.
func NewClient(cfg config.PlusVibeConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		workspaceID: cfg.WorkspaceID,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// AddLeads pushes a batch of leads into a campaign and returns how many
// the platform accepted.
func (c *Client) AddLeads(ctx context.Context, campaignID string, leads []Lead) (int, error) {
	data, err := json.Marshal(addLeadsRequest{CampaignID: campaignID, Leads: leads})
	if err != nil {
		return 0, fmt.Errorf("encoding leads: %w", err)
	}

	endpoint := fmt.Sprintf("%s/leads/add?workspace_id=%s", c.baseURL, c.workspaceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("plusvibe error (status %d): %s", resp.StatusCode, string(body))
	}

	var out addLeadsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("parsing response: %w", err)
	}
	if out.Status != "success" {
		return 0, fmt.Errorf("plusvibe rejected the batch: %s", string(body))
	}
	return out.Uploaded, nil
}
