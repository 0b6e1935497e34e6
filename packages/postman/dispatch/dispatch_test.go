package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

func TestDoSendsRequestAndReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		w.Header().Set("X-Reply", "pong")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL + "/ping")
	require.NoError(t, err)

	d := New()
	resp, err := d.Do(context.Background(), wire.NewRequest("GET", u))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, "pong", resp.HeaderValue("X-Reply"))
}

func TestDoCompletesDigestChallenge(t *testing.T) {
	attempt := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempt++
		if attempt == 1 {
			w.Header().Set("WWW-Authenticate", `Digest realm="test", nonce="abc123", qop="auth"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Contains(t, r.Header.Get("Authorization"), "Digest")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL + "/secure")
	require.NoError(t, err)

	req := wire.NewRequest("GET", u)
	req.PendingAuth = &wire.PendingAuth{Type: model.AuthDigest, Parameters: map[string]string{"username": "u", "password": "p"}}

	d := New()
	resp, err := d.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, attempt)
}

func TestValidateURLRejectsNonHTTPScheme(t *testing.T) {
	err := ValidateURL("ftp://example.com/file")
	assert.Error(t, err)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New()
	_, err = d.Do(ctx, wire.NewRequest("GET", u))
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, KindCancelled, transportErr.Kind)
}

func TestDoConnectionRefusedReportsConnectionRefusedKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	u, err := url.Parse(addr)
	require.NoError(t, err)

	d := New()
	_, err = d.Do(context.Background(), wire.NewRequest("GET", u))
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, KindConnectionRefused, transportErr.Kind)
}

func TestDoTooManyRedirectsReportsTooManyRedirectsKind(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/next", http.StatusFound)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	d := New(WithMaxRedirects(2))
	_, err = d.Do(context.Background(), wire.NewRequest("GET", u))
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, KindTooManyRedirects, transportErr.Kind)
}
