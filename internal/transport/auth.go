package transport

import "net/http"

// Authenticator attaches credentials to an outgoing request. The
// client applies it to every request it sends.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// BearerAuth sends the token as an RFC 6750 Authorization header. The
// OMS API authenticates this way.
type BearerAuth struct{}

// Apply sets "Authorization: Bearer <token>".
func (BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth sends the token in a named header, for endpoints that
// expect e.g. "X-Api-Key" instead of Authorization.
type HeaderAuth struct {
	Header string
}

// Apply writes the token into the configured header.
func (a HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}

// QueryAuth appends the token as a query parameter. A request without
// a URL is left untouched.
type QueryAuth struct {
	Param string
}

// Apply re-encodes the query string with the token parameter set.
func (a QueryAuth) Apply(req *http.Request, token string) {
	if req.URL == nil {
		return
	}
	q := req.URL.Query()
	q.Set(a.Param, token)
	req.URL.RawQuery = q.Encode()
}

// NoAuth sends requests unauthenticated.
type NoAuth struct{}

// Apply is a no-op.
func (NoAuth) Apply(*http.Request, string) {}
