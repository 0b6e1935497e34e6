package prepare

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

func baseCtx() *context.Context {
	c := context.New()
	c.Set(context.ScopeCollection, "base", "https://api.x")
	c.Set(context.ScopeRequest, "id", "42")
	c.Set(context.ScopeRequest, "lim", "10")
	return c
}

func TestPrepareResolvesURLWithPathParamsAndQuery(t *testing.T) {
	req := &model.Request{
		Name:   "get-user",
		Method: "get",
		URL: model.Url{
			Host: []string{"{{base}}"},
			Path: []string{"users", ":id"},
			Query: []model.QueryParam{
				{Key: "limit", Value: "{{lim}}"},
			},
		},
	}
	wireReq, diags, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "GET", wireReq.Method)
	assert.Equal(t, "https://api.x/users/42?limit=10", wireReq.URL.String())
}

func TestPrepareAppliesCollectionAuthByDefault(t *testing.T) {
	collection := &model.Collection{
		Info: model.Info{Name: "c"},
		Auth: &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "secret"}},
	}
	req := &model.Request{
		Name:   "r",
		Method: "GET",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"ping"}},
	}
	wireReq, _, err := Prepare(req, nil, collection, baseCtx(), Options{Policy: resolve.PolicyLenient})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", wireReq.Header.Get("Authorization"))
}

func TestPrepareFolderNoauthBlocksCollectionAuth(t *testing.T) {
	collection := &model.Collection{
		Info: model.Info{Name: "c"},
		Auth: &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "secret"}},
	}
	folder := &model.Folder{Name: "f", Auth: &model.Auth{Type: model.AuthNoAuth}}
	req := &model.Request{
		Name:   "r",
		Method: "GET",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"ping"}},
	}
	wireReq, _, err := Prepare(req, []*model.Folder{folder}, collection, baseCtx(), Options{Policy: resolve.PolicyLenient})
	require.NoError(t, err)
	assert.Empty(t, wireReq.Header.Get("Authorization"))
}

func TestPrepareReservedHeadersAreFiltered(t *testing.T) {
	req := &model.Request{
		Name:   "r",
		Method: "GET",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"ping"}},
		Headers: []model.Header{
			{Key: "Host", Value: "evil.example.com"},
			{Key: "X-Custom", Value: "ok"},
		},
	}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient})
	require.NoError(t, err)
	assert.Empty(t, wireReq.Header.Get("Host"))
	assert.Equal(t, "ok", wireReq.Header.Get("X-Custom"))
}

func TestPrepareURLEncodedBody(t *testing.T) {
	req := &model.Request{
		Name:   "r",
		Method: "POST",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"form"}},
		Body: &model.Body{
			Mode: model.BodyURLEncoded,
			URLEncoded: []model.KeyValue{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2", Disabled: true},
			},
		},
	}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient})
	require.NoError(t, err)
	assert.Equal(t, "a=1", string(wireReq.Body))
	assert.Equal(t, "application/x-www-form-urlencoded", wireReq.Header.Get("Content-Type"))
}

func TestPrepareExtensionsOverrideHeaderAndSubstituteAuth(t *testing.T) {
	req := &model.Request{
		Name:    "r",
		Method:  "GET",
		URL:     model.Url{Host: []string{"{{base}}"}, Path: []string{"ping"}},
		Headers: []model.Header{{Key: "X-Env", Value: "staging"}},
		Auth:    &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "original-token"}},
	}
	ext := &Extensions{
		HeaderSubstitutions: map[string]string{"X-Env": "production"},
		AuthSubstitutions:   map[string]string{"token": "override-token"},
	}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient, Extensions: ext})
	require.NoError(t, err)
	assert.Equal(t, "production", wireReq.Header.Get("X-Env"))
	assert.Equal(t, "Bearer override-token", wireReq.Header.Get("Authorization"))
}

func TestPrepareExtensionsDropEmptyHeaderAfterSubstitution(t *testing.T) {
	req := &model.Request{
		Name:    "r",
		Method:  "GET",
		URL:     model.Url{Host: []string{"{{base}}"}, Path: []string{"ping"}},
		Headers: []model.Header{{Key: "X-Env", Value: "staging"}},
	}
	ext := &Extensions{HeaderSubstitutions: map[string]string{"X-Env": ""}}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient, Extensions: ext})
	require.NoError(t, err)
	assert.Empty(t, wireReq.Header.Get("X-Env"))
}

func TestPrepareURLSubstitutionsOverrideHostAndPort(t *testing.T) {
	req := &model.Request{
		Name:   "r",
		Method: "GET",
		URL:    model.Url{Protocol: "https", Host: []string{"{{base}}"}, Path: []string{"ping"}},
	}
	newHost := "canary.internal"
	newPort := "8443"
	ext := &Extensions{URLSubstitutions: &URLSubstitutions{Host: &newHost, Port: &newPort}}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient, Extensions: ext})
	require.NoError(t, err)
	assert.Equal(t, "https://canary.internal:8443/ping", wireReq.URL.String())
}

func TestPrepareBodySubstitutionsOverrideRawJSONKey(t *testing.T) {
	req := &model.Request{
		Name:   "r",
		Method: "POST",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"users"}},
		Body:   &model.Body{Mode: model.BodyRaw, Raw: `{"name":"alice","role":"user"}`},
	}
	ext := &Extensions{
		BodySubstitutions: map[string]string{"role": "admin"},
		BodyExtensions:    map[string]string{"active": "true"},
	}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient, Extensions: ext})
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(wireReq.Body, &body))
	assert.Equal(t, "alice", body["name"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "true", body["active"])
}

func TestPrepareFileBodyRejectsPathEscapingBaseDir(t *testing.T) {
	req := &model.Request{
		Name:   "r",
		Method: "POST",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"upload"}},
		Body:   &model.Body{Mode: model.BodyFile, File: &model.FileRef{Src: "../../etc/passwd"}},
	}
	_, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient, BaseDir: "/var/collections/assets"})
	require.Error(t, err)
}

func TestPrepareDigestDefersToPendingAuth(t *testing.T) {
	req := &model.Request{
		Name:   "r",
		Method: "GET",
		URL:    model.Url{Host: []string{"{{base}}"}, Path: []string{"secure"}},
		Auth:   &model.Auth{Type: model.AuthDigest, Parameters: map[string]string{"username": "u", "password": "p"}},
	}
	wireReq, _, err := Prepare(req, nil, nil, baseCtx(), Options{Policy: resolve.PolicyLenient})
	require.NoError(t, err)
	require.NotNil(t, wireReq.PendingAuth)
	assert.Equal(t, model.AuthDigest, wireReq.PendingAuth.Type)
}
