package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/context"
)

func TestResolveSimpleTemplate(t *testing.T) {
	ctx := context.New()
	ctx.Set(context.ScopeCollection, "base", "https://api.x")
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.Resolve("{{base}}/users")
	assert.Empty(t, diags)
	assert.Equal(t, "https://api.x/users", out)
}

func TestResolveNestedTemplate(t *testing.T) {
	ctx := context.New()
	ctx.Set(context.ScopeGlobal, "a", "{{b}}")
	ctx.Set(context.ScopeGlobal, "b", "value")
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.Resolve("{{a}}")
	assert.Empty(t, diags)
	assert.Equal(t, "value", out)
}

func TestResolveCycleDetected(t *testing.T) {
	ctx := context.New()
	ctx.Set(context.ScopeGlobal, "a", "{{b}}")
	ctx.Set(context.ScopeGlobal, "b", "{{a}}")
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.Resolve("{{a}}")
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Kind == DiagCycle {
			found = true
		}
	}
	assert.True(t, found, "expected a cycle diagnostic, got %+v", diags)
	assert.Contains(t, out, "{{")
}

func TestResolveUnresolvedLenientLeavesPlaceholder(t *testing.T) {
	ctx := context.New()
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.Resolve("{{missing}}")
	assert.Equal(t, "{{missing}}", out)
	require.Len(t, diags, 1)
	assert.Equal(t, DiagUnresolved, diags[0].Kind)
}

func TestResolveStrictReturnsError(t *testing.T) {
	ctx := context.New()
	r := New(ctx, nil, PolicyStrict)

	_, _, err := r.ResolveStrict("{{missing}}")
	require.Error(t, err)
}

func TestResolveBuiltinGuid(t *testing.T) {
	ctx := context.New()
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.Resolve("{{$guid}}")
	assert.Empty(t, diags)
	assert.Len(t, out, 36)
}

func TestResolveBuiltinRandomInt(t *testing.T) {
	ctx := context.New()
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.Resolve("{{$randomInt}}")
	assert.Empty(t, diags)
	assert.NotEmpty(t, out)
}

func TestResolvePathParams(t *testing.T) {
	ctx := context.New()
	ctx.Set(context.ScopeCollection, "base", "https://api.x")
	ctx.Set(context.ScopeRequest, "id", "42")
	ctx.Set(context.ScopeRequest, "lim", "10")
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.ResolvePath("{{base}}/users/:id?limit={{lim}}")
	assert.Empty(t, diags)
	assert.Equal(t, "https://api.x/users/42?limit=10", out)
}

func TestResolvePathParamsUnresolved(t *testing.T) {
	ctx := context.New()
	r := New(ctx, nil, PolicyLenient)

	out, diags := r.ResolvePath("/users/:id")
	assert.Equal(t, "/users/:id", out)
	require.Len(t, diags, 1)
	assert.Equal(t, DiagUnresolved, diags[0].Kind)
}

func TestSubstitutePathParamsDoesNotMatchTimeLikeColon(t *testing.T) {
	out, diags := SubstitutePathParams("http://host:8080/path", func(string) (string, bool) {
		return "", false
	})
	assert.Equal(t, "http://host:8080/path", out)
	assert.Empty(t, diags)
}
