// Package prepare turns a model.Request, its ancestor chain, and an
// execution context into a fully-resolved wire.Request: every template
// and path parameter expanded, headers and body rendered, and auth
// applied wherever that does not require network I/O. Prepare performs
// no network I/O itself (file and form-data file bodies are read from
// disk) — digest and bare oauth2 credentials are left as a
// wire.PendingAuth for the Dispatcher to complete.
package prepare

import (
	"strings"

	"github.com/hitcall/hitcall/packages/postman/auth"
	"github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

// Options configures one Prepare call.
type Options struct {
	// BaseDir anchors relative file paths in file/form-data bodies.
	BaseDir string
	// Policy governs how unresolved template references are reported.
	Policy resolve.UndefinedPolicy
	// Builtins overrides the default $-prefixed dynamic variable set.
	Builtins *resolve.BuiltinRegistry
	// Extensions carries per-execution overrides; may be nil.
	Extensions *Extensions
}

// Prepare builds a wire.Request ready for dispatch.
func Prepare(req *model.Request, ancestors []*model.Folder, collection *model.Collection, ctx *context.Context, opts Options) (*wire.Request, []resolve.Diagnostic, error) {
	resolver := resolve.New(ctx, opts.Builtins, opts.Policy)
	var diags []resolve.Diagnostic

	effectiveURL := opts.Extensions.applyURL(req.URL)
	u, udiags, err := buildURL(effectiveURL, resolver)
	diags = append(diags, udiags...)
	if err != nil {
		return nil, diags, err
	}
	diags = append(diags, opts.Extensions.applyQuery(u, resolver)...)

	headers, hdiags := buildHeaders(req.Headers, resolver)
	diags = append(diags, hdiags...)
	diags = append(diags, opts.Extensions.applyHeaders(headers, resolver)...)

	effectiveBody, ediags := opts.Extensions.applyBody(req.Body)
	diags = append(diags, ediags...)
	bodyBytes, contentType, bdiags, err := buildBody(effectiveBody, opts.BaseDir, resolver)
	diags = append(diags, bdiags...)
	if err != nil {
		return nil, diags, err
	}
	if contentType != "" && headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", contentType)
	}

	wireReq := &wire.Request{
		Method: strings.ToUpper(req.Method),
		URL:    u,
		Header: headers,
		Body:   bodyBytes,
	}

	resolvedAuth := auth.Resolve(req, ancestors, collection)
	effectiveAuth := applyAuthSubstitutions(resolvedAuth.Auth, opts.Extensions)
	if err := auth.Apply(wireReq, effectiveAuth, resolver); err != nil {
		return nil, diags, err
	}

	return wireReq, diags, nil
}

// applyAuthSubstitutions overrides individual parameter values on the
// resolved effective auth before variable resolution, leaving auth
// untouched when ext carries no AuthSubstitutions.
func applyAuthSubstitutions(a *model.Auth, ext *Extensions) *model.Auth {
	if a == nil || ext == nil || len(ext.AuthSubstitutions) == 0 {
		return a
	}
	params := make(map[string]string, len(a.Parameters))
	for k, v := range a.Parameters {
		params[k] = v
	}
	for k, v := range ext.AuthSubstitutions {
		params[k] = v
	}
	return &model.Auth{Type: a.Type, Parameters: params}
}
