package auth

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

// Apply mutates req to carry the credentials described by auth. Every
// parameter value is run through resolver first, so auth parameters may
// themselves reference {{variables}}. Auth types requiring a network
// round trip (digest, and oauth2 without a pre-supplied access token)
// are not completed here — Apply instead attaches a wire.PendingAuth for
// the Dispatcher to finish, since this package performs no I/O.
func Apply(req *wire.Request, a *model.Auth, resolver *resolve.Resolver) error {
	if a == nil || a.Type == model.AuthNoAuth {
		return nil
	}

	params := resolveParams(a.Parameters, resolver)

	switch a.Type {
	case model.AuthBasic:
		return applyBasic(req, params)
	case model.AuthBearer:
		return applyBearer(req, params)
	case model.AuthAPIKey:
		return applyAPIKey(req, params)
	case model.AuthAWSV4:
		return applyAWSV4(req, params)
	case model.AuthOAuth1:
		return applyOAuth1(req, params)
	case model.AuthDigest:
		req.PendingAuth = &wire.PendingAuth{Type: model.AuthDigest, Parameters: params}
		return nil
	case model.AuthOAuth2:
		return applyOAuth2(req, params)
	case model.AuthNTLM:
		return unsupported(string(model.AuthNTLM))
	case model.AuthHawk:
		return unsupported(string(model.AuthHawk))
	default:
		return unsupported(string(a.Type))
	}
}

func resolveParams(params map[string]string, resolver *resolve.Resolver) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		if resolver != nil {
			resolved, _ := resolver.Resolve(v)
			out[k] = resolved
			continue
		}
		out[k] = v
	}
	return out
}

func applyBasic(req *wire.Request, p map[string]string) error {
	username, ok := p["username"]
	if !ok {
		return missingParam(string(model.AuthBasic), "username")
	}
	password, ok := p["password"]
	if !ok {
		return missingParam(string(model.AuthBasic), "password")
	}
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	req.Header.Set("Authorization", "Basic "+token)
	return nil
}

func applyBearer(req *wire.Request, p map[string]string) error {
	token, ok := p["token"]
	if !ok || token == "" {
		return missingParam(string(model.AuthBearer), "token")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func applyAPIKey(req *wire.Request, p map[string]string) error {
	key, ok := p["key"]
	if !ok || key == "" {
		return missingParam(string(model.AuthAPIKey), "key")
	}
	value := p["value"]
	in := strings.ToLower(p["in"])
	if in == "" {
		in = "header"
	}
	switch in {
	case "query":
		q := req.URL.Query()
		q.Set(key, value)
		req.URL.RawQuery = q.Encode()
	default:
		req.Header.Set(key, value)
	}
	return nil
}

func applyOAuth2(req *wire.Request, p map[string]string) error {
	if token := p["accessToken"]; token != "" {
		addTo := strings.ToLower(p["addTokenTo"])
		if addTo == "query" {
			q := req.URL.Query()
			q.Set("access_token", token)
			req.URL.RawQuery = q.Encode()
			return nil
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
	if p["clientId"] == "" || p["clientSecret"] == "" || p["tokenUrl"] == "" {
		return missingParam(string(model.AuthOAuth2), "accessToken (or clientId/clientSecret/tokenUrl)")
	}
	req.PendingAuth = &wire.PendingAuth{Type: model.AuthOAuth2, Parameters: p}
	return nil
}

func mustParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid url %q: %w", raw, err)
	}
	return u, nil
}
