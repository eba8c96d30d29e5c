// Package smartlead is the HTTP client for the Smartlead campaign API.
package smartlead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/pkg/httpretry"
)

// Client is a Smartlead API client. Smartlead authenticates with an
// api_key query parameter rather than a header.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a Smartlead client from config.
func NewClient(cfg config.SmartleadConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// AddLeads pushes a batch of leads into a campaign and returns how many
// the platform accepted.
func (c *Client) AddLeads(ctx context.Context, campaignID string, leads []Lead) (int, error) {
	data, err := json.Marshal(addLeadsRequest{LeadList: leads})
	if err != nil {
		return 0, fmt.Errorf("encoding leads: %w", err)
	}

	endpoint := fmt.Sprintf("%s/campaigns/%s/leads?api_key=%s",
		c.baseURL, campaignID, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
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
		return 0, fmt.Errorf("smartlead error (status %d): %s", resp.StatusCode, string(body))
	}

	var out addLeadsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("parsing response: %w", err)
	}
	if !out.OK {
		return 0, fmt.Errorf("smartlead rejected the batch: %s", string(body))
	}
	return out.UploadCount, nil
}
