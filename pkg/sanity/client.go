package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
)

const (
	defaultAPIVersion     = "2024-01-01"
	defaultDataset        = "production"
	errorBodyReadLimit    = 4096
	responseBodyReadLimit = 8 << 20
	defaultRequestTimeout = 10 * time.Second
)

var errProjectIDRequired = errors.New("sanity project id is required")

// Client runs read-only GROQ queries against the Sanity HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
	dataset    string
	apiVersion string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the derived API host, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithToken attaches a read token for private datasets.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithCDN routes queries through the cached API CDN.
func WithCDN(enabled bool) Option {
	return func(c *Client) {
		if enabled {
			c.baseURL = fmt.Sprintf("https://%s.apicdn.sanity.io", c.projectID)
		}
	}
}

// NewClient builds a query client for the given project and dataset.
func NewClient(projectID, dataset, apiVersion string, opts ...Option) (*Client, error) {
	project := strings.TrimSpace(projectID)
	if project == "" {
		return nil, errProjectIDRequired
	}
	if strings.TrimSpace(dataset) == "" {
		dataset = defaultDataset
	}
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = defaultAPIVersion
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		baseURL:    fmt.Sprintf("https://%s.api.sanity.io", project),
		projectID:  project,
		dataset:    strings.TrimSpace(dataset),
		apiVersion: strings.TrimPrefix(strings.TrimSpace(apiVersion), "v"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ProjectID returns the configured project.
func (c *Client) ProjectID() string { return c.projectID }

// Dataset returns the configured dataset.
func (c *Client) Dataset() string { return c.dataset }

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

// Query executes a GROQ query and decodes its result into dest. A null result
// leaves dest untouched and returns found=false.
func (c *Client) Query(ctx context.Context, query string, params map[string]any, dest any) (bool, error) {
	endpoint, err := c.queryURL(query, params)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build sanity query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build sanity request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sanity request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		var payload errorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &payload) == nil && payload.Error.Description != "" {
			msg = payload.Error.Description
		}
		return false, pkgerrors.New(pkgerrors.CodeDependency, "sanity query failed").
			WithDetails(map[string]any{"status": resp.StatusCode, "error": msg})
	}

	var payload queryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&payload); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sanity response")
	}
	if len(payload.Result) == 0 || string(payload.Result) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(payload.Result, dest); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sanity result")
	}
	return true, nil
}

func (c *Client) queryURL(query string, params map[string]any) (string, error) {
	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}
	return fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, url.PathEscape(c.dataset), values.Encode()), nil
}
