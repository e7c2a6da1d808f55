// Package transport provides the authenticated HTTP client used by
// source adapters that fetch inventory over REST APIs.
package transport

import (
	"context"
	"net/http"

	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
)

// DefaultHTTPTimeout is the per-request timeout. A variable so tests
// can shorten it.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client is an HTTP client that authenticates every request it sends.
type Client struct {
	http  *http.Client
	auth  Authenticator
	token string
}

// New builds a client around auth. The token is applied to every
// outgoing request; leave it empty for endpoints that need no
// credentials. A nil auth falls back to NoAuth.
func New(auth Authenticator, token string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:  &http.Client{Timeout: DefaultHTTPTimeout},
		auth:  auth,
		token: token,
	}
}

// Do sends req with the credential and content negotiation headers
// applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get issues an authenticated GET to url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("request", url, err)
	}
	return c.Do(req)
}
