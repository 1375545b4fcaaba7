package hh

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/client"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
)

// Tokens is the answer of the token endpoint
type Tokens struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthorizeURL is the page where a user grants access and receives a code
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.opts.ClientID)
	q.Set("redirect_uri", c.opts.RedirectURI)
	return c.opts.OAuthURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades an authorisation code for tokens
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.InvalidInput("authorization code is empty")
	}
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return nil, errors.ConfigInvalid("HH_CLIENT_ID and HH_CLIENT_SECRET are required")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.opts.ClientID)
	form.Set("client_secret", c.opts.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.opts.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.OAuthURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "build token request")
	}
	req.Header = client.JSONHeaders(c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokens Tokens
	if err := c.do(req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
