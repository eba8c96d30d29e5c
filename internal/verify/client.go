package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/pkg/httpretry"
)

// Client is the HTTP verification provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a verification API client from config.
func NewClient(cfg config.VerificationConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// checkResponse is the provider's wire format.
type checkResponse struct {
	Email  string `json:"email"`
	Result string `json:"result"`
}

// Check verifies one address.
func (c *Client) Check(ctx context.Context, email string) (Result, error) {
	params := url.Values{}
	params.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("verifier error (status %d): %s", resp.StatusCode, string(body))
	}

	var out checkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Result{}, fmt.Errorf("parsing response: %w", err)
	}
	return Result{Email: out.Email, Status: out.Result}, nil
}
