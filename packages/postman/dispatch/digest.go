package dispatch

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/wire"
)

// digestAuth holds the RFC 2617 parameters needed to build an
// Authorization: Digest header.
type digestAuth struct {
	Username, Password string
	Realm, Nonce, URI   string
	Qop, Nc, Cnonce     string
	Opaque, Method      string
}

func (d *digestAuth) response() string {
	ha1 := md5Hash(fmt.Sprintf("%s:%s:%s", d.Username, d.Realm, d.Password))
	ha2 := md5Hash(fmt.Sprintf("%s:%s", d.Method, d.URI))
	if d.Qop == "auth" || d.Qop == "auth-int" {
		return md5Hash(fmt.Sprintf("%s:%s:%s:%s:%s:%s", ha1, d.Nonce, d.Nc, d.Cnonce, d.Qop, ha2))
	}
	return md5Hash(fmt.Sprintf("%s:%s:%s", ha1, d.Nonce, ha2))
}

func (d *digestAuth) header() string {
	response := d.response()
	parts := []string{
		fmt.Sprintf(`username="%s"`, d.Username),
		fmt.Sprintf(`realm="%s"`, d.Realm),
		fmt.Sprintf(`nonce="%s"`, d.Nonce),
		fmt.Sprintf(`uri="%s"`, d.URI),
		fmt.Sprintf(`response="%s"`, response),
	}
	if d.Qop != "" {
		parts = append(parts, fmt.Sprintf(`qop=%s`, d.Qop))
		parts = append(parts, fmt.Sprintf(`nc=%s`, d.Nc))
		parts = append(parts, fmt.Sprintf(`cnonce="%s"`, d.Cnonce))
	}
	if d.Opaque != "" {
		parts = append(parts, fmt.Sprintf(`opaque="%s"`, d.Opaque))
	}
	return "Digest " + strings.Join(parts, ", ")
}

func md5Hash(s string) string {
	h := md5.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func generateCnonce() (string, error) {
	b := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func parseWWWAuthenticate(header string) map[string]string {
	result := make(map[string]string)
	header = strings.TrimPrefix(header, "Digest ")
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "="); idx != -1 {
			key := strings.TrimSpace(part[:idx])
			value := strings.Trim(strings.TrimSpace(part[idx+1:]), `"`)
			result[key] = value
		}
	}
	return result
}

// doWithDigestAuth sends an unauthenticated probe to discover the
// challenge, then retries once with the computed Authorization header.
func (d *Dispatcher) doWithDigestAuth(ctx context.Context, req *wire.Request) (*Response, error) {
	resp, err := d.send(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 401 {
		return resp, nil
	}

	wwwAuth := resp.HeaderValue("WWW-Authenticate")
	if wwwAuth == "" {
		return resp, nil
	}
	params := parseWWWAuthenticate(wwwAuth)

	da := &digestAuth{
		Username: req.PendingAuth.Parameters["username"],
		Password: req.PendingAuth.Parameters["password"],
		Realm:    params["realm"],
		Nonce:    params["nonce"],
		URI:      req.URL.RequestURI(),
		Qop:      params["qop"],
		Opaque:   params["opaque"],
		Method:   req.Method,
	}
	if da.Qop != "" {
		da.Nc = "00000001"
		cnonce, err := generateCnonce()
		if err != nil {
			return nil, err
		}
		da.Cnonce = cnonce
		if strings.Contains(da.Qop, "auth") {
			da.Qop = "auth"
		}
	}

	return d.send(ctx, req, da.header())
}
