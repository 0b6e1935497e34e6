package dispatch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind names the fixed taxonomy of transport-level failures a
// Dispatcher can report, distinct from a successfully-received non-2xx
// HTTP response.
type ErrorKind string

const (
	KindTimeout           ErrorKind = "Timeout"
	KindConnectionRefused ErrorKind = "ConnectionRefused"
	KindDNSFailure        ErrorKind = "DnsFailure"
	KindTLSFailure        ErrorKind = "TlsFailure"
	KindTooManyRedirects  ErrorKind = "TooManyRedirects"
	KindProtocolError     ErrorKind = "ProtocolError"
	KindCancelled         ErrorKind = "Cancelled"
)

// TransportError reports a network-level failure sending a request,
// classified into one of ErrorKind's fixed values so callers can branch
// on failure cause without parsing error strings.
type TransportError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dispatch: %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

var errTooManyRedirects = errors.New("too many redirects")

// classifyError wraps a raw network/stdlib error in a TransportError.
// Order matters: cancellation and deadline checks run first since a
// canceled context surfaces through lower-level net errors too.
func classifyError(ctx context.Context, err error) *TransportError {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*TransportError); ok {
		return existing
	}

	if ctx.Err() == context.Canceled {
		return &TransportError{Kind: KindCancelled, Err: err}
	}
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Kind: KindTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Err: err}
	}

	if errors.Is(err, errTooManyRedirects) {
		return &TransportError{Kind: KindTooManyRedirects, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransportError{Kind: KindDNSFailure, Err: err}
	}

	var certVerifyErr *tls.CertificateVerificationError
	var unknownAuthErr x509.UnknownAuthorityError
	var certInvalidErr x509.CertificateInvalidError
	var hostnameErr x509.HostnameError
	switch {
	case errors.As(err, &certVerifyErr),
		errors.As(err, &unknownAuthErr),
		errors.As(err, &certInvalidErr),
		errors.As(err, &hostnameErr),
		strings.Contains(err.Error(), "tls:"),
		strings.Contains(err.Error(), "x509:"):
		return &TransportError{Kind: KindTLSFailure, Err: err}
	}

	if strings.Contains(err.Error(), "connection refused") {
		return &TransportError{Kind: KindConnectionRefused, Err: err}
	}

	return &TransportError{Kind: KindProtocolError, Err: err}
}
