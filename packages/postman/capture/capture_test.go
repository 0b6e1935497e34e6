package capture

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmcontext "github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/model"
)

func TestExtractBodyPath(t *testing.T) {
	resp := &dispatch.Response{StatusCode: 200, Body: []byte(`{"token":"abc123","user":{"id":7}}`)}

	v, ok := Extract(resp, Spec{Source: SourceBody, Path: "token"})
	require.True(t, ok)
	assert.Equal(t, "abc123", v)

	v, ok = Extract(resp, Spec{Source: SourceBody, Path: "user.id"})
	require.True(t, ok)
	assert.Equal(t, "7", v)

	_, ok = Extract(resp, Spec{Source: SourceBody, Path: "missing"})
	assert.False(t, ok)
}

func TestExtractHeaderAndStatus(t *testing.T) {
	resp := &dispatch.Response{
		StatusCode: 201,
		Header:     http.Header{"X-Request-Id": []string{"req-1"}},
	}

	v, ok := Extract(resp, Spec{Source: SourceHeader, Path: "X-Request-Id"})
	require.True(t, ok)
	assert.Equal(t, "req-1", v)

	v, ok = Extract(resp, Spec{Source: SourceStatus})
	require.True(t, ok)
	assert.Equal(t, "201", v)
}

func TestNewRuntimeHookWritesToRuntimeScope(t *testing.T) {
	ctx := pmcontext.New()
	resp := &dispatch.Response{StatusCode: 200, Body: []byte(`{"token":"xyz"}`)}
	hookFn := NewRuntimeHook([]Spec{{Name: "token", Source: SourceBody, Path: "token"}})

	err := hookFn(ctx, &model.Request{Name: "login"}, resp)
	require.NoError(t, err)

	v, ok := ctx.Get("token")
	require.True(t, ok)
	assert.Equal(t, "xyz", v)
}

func TestNewRuntimeHookSkipsMissingValues(t *testing.T) {
	ctx := pmcontext.New()
	resp := &dispatch.Response{StatusCode: 200, Body: []byte(`{}`)}
	hookFn := NewRuntimeHook([]Spec{{Name: "token", Source: SourceBody, Path: "token"}})

	err := hookFn(ctx, &model.Request{Name: "login"}, resp)
	require.NoError(t, err)

	_, ok := ctx.Get("token")
	assert.False(t, ok)
}
