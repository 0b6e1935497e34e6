package dispatch

import (
	"context"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/hitcall/hitcall/packages/postman/wire"
)

// completeOAuth2 fetches an access token via the client-credentials
// grant and applies it to req, for the case where
// packages/postman/auth.Apply could not apply a static accessToken and
// deferred here instead.
func (d *Dispatcher) completeOAuth2(ctx context.Context, req *wire.Request) error {
	p := req.PendingAuth.Parameters
	cfg := &clientcredentials.Config{
		ClientID:     p["clientId"],
		ClientSecret: p["clientSecret"],
		TokenURL:     p["tokenUrl"],
	}
	if scope := p["scope"]; scope != "" {
		cfg.Scopes = strings.Fields(scope)
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		return err
	}

	addTo := strings.ToLower(p["addTokenTo"])
	if addTo == "query" {
		q := req.URL.Query()
		q.Set("access_token", token.AccessToken)
		req.URL.RawQuery = q.Encode()
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return nil
}
