package auth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

func newReq(t *testing.T) *wire.Request {
	u, err := url.Parse("https://api.example.com/widgets")
	require.NoError(t, err)
	return wire.NewRequest("GET", u)
}

func newResolver() *resolve.Resolver {
	return resolve.New(context.New(), nil, resolve.PolicyLenient)
}

func TestApplyBasicAuth(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthBasic, Parameters: map[string]string{"username": "alice", "password": "secret"}}
	require.NoError(t, Apply(req, a, newResolver()))
	assert.Equal(t, "Basic YWxpY2U6c2VjcmV0", req.Header.Get("Authorization"))
}

func TestApplyBearerMissingToken(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{}}
	err := Apply(req, a, newResolver())
	require.Error(t, err)
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestApplyAPIKeyInQuery(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthAPIKey, Parameters: map[string]string{"key": "X-Api-Key", "value": "secret", "in": "query"}}
	require.NoError(t, Apply(req, a, newResolver()))
	assert.Equal(t, "secret", req.URL.Query().Get("X-Api-Key"))
}

func TestApplyAPIKeyInHeader(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthAPIKey, Parameters: map[string]string{"key": "X-Api-Key", "value": "secret"}}
	require.NoError(t, Apply(req, a, newResolver()))
	assert.Equal(t, "secret", req.Header.Get("X-Api-Key"))
}

func TestApplyDigestDefersToPendingAuth(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthDigest, Parameters: map[string]string{"username": "u", "password": "p"}}
	require.NoError(t, Apply(req, a, newResolver()))
	require.NotNil(t, req.PendingAuth)
	assert.Equal(t, model.AuthDigest, req.PendingAuth.Type)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestApplyOAuth2WithStaticTokenIsImmediate(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthOAuth2, Parameters: map[string]string{"accessToken": "tok123"}}
	require.NoError(t, Apply(req, a, newResolver()))
	assert.Equal(t, "Bearer tok123", req.Header.Get("Authorization"))
	assert.Nil(t, req.PendingAuth)
}

func TestApplyOAuth2WithoutTokenDefers(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthOAuth2, Parameters: map[string]string{
		"clientId": "id", "clientSecret": "secret", "tokenUrl": "https://auth.example.com/token",
	}}
	require.NoError(t, Apply(req, a, newResolver()))
	require.NotNil(t, req.PendingAuth)
	assert.Equal(t, model.AuthOAuth2, req.PendingAuth.Type)
}

func TestApplyNTLMUnsupported(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthNTLM, Parameters: map[string]string{}}
	err := Apply(req, a, newResolver())
	require.Error(t, err)
}

func TestApplyHawkUnsupported(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthHawk, Parameters: map[string]string{}}
	err := Apply(req, a, newResolver())
	require.Error(t, err)
}

func TestApplyAWSV4SetsAuthorizationHeader(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthAWSV4, Parameters: map[string]string{
		"accessKey": "AKIDEXAMPLE", "secretKey": "secret", "region": "us-east-1", "service": "execute-api",
	}}
	require.NoError(t, Apply(req, a, newResolver()))
	assert.Contains(t, req.Header.Get("Authorization"), "AWS4-HMAC-SHA256")
	assert.NotEmpty(t, req.Header.Get("X-Amz-Date"))
}

func TestApplyOAuth1SetsAuthorizationHeader(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthOAuth1, Parameters: map[string]string{
		"consumerKey": "ck", "consumerSecret": "cs", "token": "tok", "tokenSecret": "ts", "signatureMethod": "HMAC-SHA1",
	}}
	require.NoError(t, Apply(req, a, newResolver()))
	assert.Contains(t, req.Header.Get("Authorization"), "OAuth ")
}

func TestApplyOAuth1MissingSignatureMethodFails(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthOAuth1, Parameters: map[string]string{
		"consumerKey": "ck", "consumerSecret": "cs", "token": "tok", "tokenSecret": "ts",
	}}
	err := Apply(req, a, newResolver())
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "signatureMethod", ce.Field)
}

func TestApplyOAuth1MissingConsumerSecretFails(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthOAuth1, Parameters: map[string]string{
		"consumerKey": "ck", "token": "tok", "tokenSecret": "ts", "signatureMethod": "HMAC-SHA1",
	}}
	err := Apply(req, a, newResolver())
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "consumerSecret", ce.Field)
}

func TestApplyBasicAuthMissingPasswordFails(t *testing.T) {
	req := newReq(t)
	a := &model.Auth{Type: model.AuthBasic, Parameters: map[string]string{"username": "alice"}}
	err := Apply(req, a, newResolver())
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "password", ce.Field)
}

func TestApplyNoAuthIsNoop(t *testing.T) {
	req := newReq(t)
	require.NoError(t, Apply(req, &model.Auth{Type: model.AuthNoAuth}, newResolver()))
	assert.Empty(t, req.Header.Get("Authorization"))
	require.NoError(t, Apply(req, nil, newResolver()))
}

func TestApplyParametersAreTemplateResolved(t *testing.T) {
	ctx := context.New()
	ctx.Set(context.ScopeCollection, "apiToken", "resolved-token")
	r := resolve.New(ctx, nil, resolve.PolicyLenient)

	req := newReq(t)
	a := &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "{{apiToken}}"}}
	require.NoError(t, Apply(req, a, r))
	assert.Equal(t, "Bearer resolved-token", req.Header.Get("Authorization"))
}
