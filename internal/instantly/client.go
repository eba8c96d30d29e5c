// Package instantly is the HTTP client for the Instantly.ai campaign API.
package instantly

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

// Client is an Instantly API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates an Instantly client from config.
func NewClient(cfg config.InstantlyConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// AddLeads pushes leads into a campaign one at a time (the v2 API has no
// batch endpoint) and returns how many were accepted.
func (c *Client) AddLeads(ctx context.Context, campaignID string, leads []Lead) (int, error) {
	added := 0
	for _, lead := range leads {
		lead.CampaignID = campaignID
		if err := c.createLead(ctx, lead); err != nil {
			return added, fmt.Errorf("add lead %d of %d: %w", added+1, len(leads), err)
		}
		added++
	}
	return added, nil
}

func (c *Client) createLead(ctx context.Context, lead Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encoding lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/leads", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("instantly error (status %d): %s", resp.StatusCode, string(body))
	}

	var out createResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
