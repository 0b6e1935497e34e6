package dispatch

import (
	"net/http"
	"time"
)

// Response is the result of sending one wire.Request.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	// Cookies captures Set-Cookie entries on the response, read-only —
	// the core never maintains a cookie jar or round-trips these on a
	// subsequent request; exposed for introspection only.
	Cookies []*http.Cookie
}

// HeaderValue returns the first value for key, like http.Header.Get.
func (r *Response) HeaderValue(key string) string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get(key)
}
