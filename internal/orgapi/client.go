// internal/orgapi/client.go
package orgapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetgrid/orgctx/internal/model"
)

// Config represents the configuration for the directory client
type Config struct {
	// BaseURL is the base URL of the membership directory service
	BaseURL string
	// Token is the bearer token sent on every request
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client talks to a remote membership directory over HTTP. It implements
// OrganizationAPI for deployments where the directory is a separate service.
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new directory client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if client == http.DefaultClient && config.Timeout > 0 {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config: config,
		client: client,
	}
}

type listResponse struct {
	Memberships []model.Membership `json:"memberships"`
}

type switchRequest struct {
	OrganizationID int64 `json:"organization_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetAll returns every membership of the authenticated user, in the order
// the directory returns them.
func (c *Client) GetAll(ctx context.Context) ([]model.Membership, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/organizations", nil)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Memberships, nil
}

// Switch asks the directory for a token re-scoped to organizationID.
func (c *Client) Switch(ctx context.Context, organizationID int64) (*SwitchResult, error) {
	body, err := json.Marshal(switchRequest{OrganizationID: organizationID})
	if err != nil {
		return nil, fmt.Errorf("encoding switch request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/organizations/switch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out SwitchResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = body
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
