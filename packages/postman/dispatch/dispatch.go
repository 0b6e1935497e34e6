// Package dispatch sends a prepared wire.Request over the network and
// returns a Response. It is the only layer in this module permitted to
// perform I/O: completing digest's challenge/response round trip and
// oauth2's client-credentials token fetch both happen here, against
// wire.Request.PendingAuth left behind by packages/postman/auth (AWS
// and OAuth1 are already fully signed by the time a request reaches
// here).
package dispatch

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxRedirects        = 10
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
)

// Dispatcher owns one pooled *http.Client plus the policies applied to
// every request it sends.
type Dispatcher struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	limiter        *rate.Limiter
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// New builds a Dispatcher with the given options applied over sane
// default timeout and redirect limits.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(d)
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !d.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= d.maxRedirects {
			return errTooManyRedirects
		}
		return nil
	}

	d.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       d.timeout,
		CheckRedirect: redirectPolicy,
	}
	return d
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = t }
}

// WithFollowRedirects toggles redirect following.
func WithFollowRedirects(follow bool) Option {
	return func(d *Dispatcher) { d.followRedirect = follow }
}

// WithMaxRedirects caps the number of redirects followed.
func WithMaxRedirects(max int) Option {
	return func(d *Dispatcher) { d.maxRedirects = max }
}

// WithInsecureSkipVerify disables TLS certificate validation — intended
// for local/self-signed development targets only.
func WithInsecureSkipVerify(skip bool) Option {
	return func(d *Dispatcher) {
		if d.httpClient == nil {
			return
		}
		if tr, ok := d.httpClient.Transport.(*http.Transport); ok {
			if tr.TLSClientConfig == nil {
				tr.TLSClientConfig = &tls.Config{}
			}
			tr.TLSClientConfig.InsecureSkipVerify = skip
		}
	}
}

// WithRateLimit paces outbound requests to at most n per second using
// golang.org/x/time/rate.
func WithRateLimit(n float64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(n), 1)
		}
	}
}

// ValidateURL restricts requests to http/https schemes.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("dispatch: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("dispatch: unsupported url scheme %q", u.Scheme)
	}
	return nil
}

// Do sends req, first completing any PendingAuth it carries. ctx
// governs cancellation; an additional per-request timeout is applied on
// top of whatever deadline ctx already carries.
func (d *Dispatcher) Do(ctx context.Context, req *wire.Request) (*Response, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if req.PendingAuth != nil {
		switch req.PendingAuth.Type {
		case model.AuthDigest:
			return d.doWithDigestAuth(ctx, req)
		case model.AuthOAuth2:
			if err := d.completeOAuth2(ctx, req); err != nil {
				return nil, classifyError(ctx, err)
			}
		}
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, classifyError(ctx, err)
		}
	}
	return d.send(ctx, req, "")
}

func (d *Dispatcher) send(ctx context.Context, req *wire.Request, authHeaderOverride string) (*Response, error) {
	if err := ValidateURL(req.URL.String()); err != nil {
		return nil, &TransportError{Kind: KindProtocolError, Err: err}
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	httpReq.Header = req.Header.Clone()
	if authHeaderOverride != "" {
		httpReq.Header.Set("Authorization", authHeaderOverride)
	}

	start := time.Now()
	httpResp, err := d.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       respBody,
		Duration:   duration,
		Cookies:    httpResp.Cookies(),
	}, nil
}
