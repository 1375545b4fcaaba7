// Package dashboard is the terminal front end of the barometer: a REST client of
// the API, view state with request sequencing and a pterm renderer.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/client"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

// APIError is an {"error": ...} answer of the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Fetcher loads JSON documents by API path
type Fetcher interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
}

// Client calls the barometer REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client.CreateHTTPClient("", timeout),
	}
}

// GetJSON fetches path and decodes the body into out. Transport and decoding
// problems are ExternalServiceError; error bodies come back as *APIError.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header = client.JSONHeaders("salarybarometer-report")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ExternalServiceError("barometer api", err)
	}
	defer resp.Body.Close()

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		return errors.ExternalServiceError("barometer api", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return errors.ExternalServiceError("barometer api",
			fmt.Errorf("status %d: %s", resp.StatusCode, client.Excerpt(body, 200)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.ExternalServiceError("barometer api", fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}
