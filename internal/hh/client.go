// Package hh talks to the hh.ru public API: vacancy search and the OAuth
// authorisation-code exchange.
package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/client"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

const serviceName = "hh.ru"

// Options configures a Client
type Options struct {
	BaseURL      string
	OAuthURL     string
	UserAgent    string
	AccessToken  string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	ProxyURL     string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Client is an hh.ru API client
type Client struct {
	httpClient *http.Client
	opts       Options
}

// New creates a client. A nil Options.HTTPClient gets the default transport.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = client.CreateHTTPClient(opts.ProxyURL, opts.Timeout)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.OAuthURL = strings.TrimRight(opts.OAuthURL, "/")
	return &Client{httpClient: httpClient, opts: opts}
}

// SearchParams are the query parameters of a vacancy search page
type SearchParams struct {
	Area              int
	PerPage           int
	Page              int
	ProfessionalRoles []int
	Text              string
}

// Values encodes the parameters; professional_role repeats once per id
func (p SearchParams) Values() url.Values {
	q := url.Values{}
	if p.Area > 0 {
		q.Set("area", strconv.Itoa(p.Area))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	q.Set("page", strconv.Itoa(p.Page))
	for _, id := range p.ProfessionalRoles {
		q.Add("professional_role", strconv.Itoa(id))
	}
	if p.Text != "" {
		q.Set("text", p.Text)
	}
	return q
}

// SearchPage is one page of search results
type SearchPage struct {
	Items   []models.Vacancy `json:"items"`
	Found   int              `json:"found"`
	Pages   int              `json:"pages"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// Search fetches one page of vacancies
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchPage, error) {
	endpoint := c.opts.BaseURL + "/vacancies?" + p.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	req.Header = client.JSONHeaders(c.opts.UserAgent)
	if c.opts.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.AccessToken)
	}

	var page SearchPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		return errors.ExternalServiceError(serviceName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.ExternalServiceError(serviceName,
			fmt.Errorf("status %d: %s", resp.StatusCode, client.Excerpt(body, 200)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.ExternalServiceError(serviceName, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
