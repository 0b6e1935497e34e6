// Package capture extracts values out of an executed response and
// writes them into the runtime variable scope so later requests in the
// same chain can reference them via {{name}}. Adapted from
// packages/capture/extractor.go's gjson-based body/header/status
// extraction, narrowed from its requestName.captureName addressing
// scheme to plain runtime variable names (the execution context here
// has no result-by-name registry to qualify against).
package capture

import (
	"strconv"

	"github.com/tidwall/gjson"

	pmcontext "github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/hook"
	"github.com/hitcall/hitcall/packages/postman/model"
)

// Source names where a Spec reads its value from.
type Source string

const (
	SourceBody   Source = "body"
	SourceHeader Source = "header"
	SourceStatus Source = "status"
)

// Spec describes one value to pull out of a response: Path is a gjson
// path for SourceBody, a header name for SourceHeader, and unused for
// SourceStatus.
type Spec struct {
	Name   string
	Source Source
	Path   string
}

// Extract reads the value spec describes out of resp.
func Extract(resp *dispatch.Response, spec Spec) (string, bool) {
	switch spec.Source {
	case SourceStatus:
		return strconv.Itoa(resp.StatusCode), true
	case SourceHeader:
		v := resp.HeaderValue(spec.Path)
		if v == "" {
			return "", false
		}
		return v, true
	case SourceBody:
		if spec.Path == "" {
			return string(resp.Body), true
		}
		result := gjson.GetBytes(resp.Body, spec.Path)
		if !result.Exists() {
			return "", false
		}
		return result.String(), true
	default:
		return "", false
	}
}

// NewRuntimeHook returns a hook.TestFunc that writes every spec's
// extracted value into the runtime scope, keyed by Spec.Name. Specs
// whose value is absent from the response are silently skipped so one
// missing optional field never fails the request.
func NewRuntimeHook(specs []Spec) hook.TestFunc {
	return func(ctx *pmcontext.Context, req *model.Request, resp *dispatch.Response) error {
		for _, spec := range specs {
			if value, ok := Extract(resp, spec); ok {
				ctx.Set(pmcontext.ScopeRuntime, spec.Name, value)
			}
		}
		return nil
	}
}
