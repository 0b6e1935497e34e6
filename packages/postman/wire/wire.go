// Package wire defines the fully-resolved, over-the-wire request shape
// shared by packages/postman/auth, prepare, dispatch, and exec. It exists
// so those packages can depend on one concrete request representation
// without importing each other.
package wire

import (
	"net/http"
	"net/url"

	"github.com/hitcall/hitcall/packages/postman/model"
)

// Request is a prepared, about-to-be-sent HTTP request: every template
// and path parameter has already been resolved, and Auth has already
// been applied except for auth types that require a network round trip
// (see PendingAuth).
type Request struct {
	Method      string
	URL         *url.URL
	Header      http.Header
	Body        []byte
	PendingAuth *PendingAuth
}

// PendingAuth marks a Request as needing auth completion inside the
// Dispatcher, which is the only layer permitted to perform network I/O.
// digest requires a challenge/response round trip against the target
// server; oauth2 without a pre-supplied access token requires a token
// fetch against the token endpoint.
type PendingAuth struct {
	Type       model.AuthType
	Parameters map[string]string
}

// NewRequest builds an empty Request with an initialized header map.
func NewRequest(method string, u *url.URL) *Request {
	return &Request{Method: method, URL: u, Header: make(http.Header)}
}
