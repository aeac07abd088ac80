package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/netscope/netscope/internal/domain"
)

// ConflictsResponse is the full payload of /api/conflicts
type ConflictsResponse struct {
	Summary   domain.Summary       `json:"summary"`
	Conflicts []domain.Conflict    `json:"conflicts"`
	Tree      []domain.TreeNetwork `json:"tree"`
}

// HTTPClient talks to a running netscope server over its JSON API.
// Requests carry no client side timeout because a scan of a big daemon
// can take a while; cancel through the context instead.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://localhost:8080")
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// GetTopology fetches the current node and edge set
func (c *HTTPClient) GetTopology(ctx context.Context) (*domain.Topology, error) {
	var topo domain.Topology
	if err := c.getJSON(ctx, "/api/topology", &topo); err != nil {
		return nil, err
	}
	return &topo, nil
}

// GetConflicts fetches the conflict report with its summary and tree view
func (c *HTTPClient) GetConflicts(ctx context.Context) (*ConflictsResponse, error) {
	var resp ConflictsResponse
	if err := c.getJSON(ctx, "/api/conflicts", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks whether the server is up
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// getJSON performs a GET and decodes the JSON response. Error statuses
// are unwrapped from the {"error": ...} envelope when present.
func (c *HTTPClient) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
