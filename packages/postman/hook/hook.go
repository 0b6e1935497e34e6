// Package hook defines the pluggable pre-request/test script seam. The
// core never evaluates model.Event.Script itself — script evaluation is
// an opaque external concern, wired in here as a plain function pair so
// the executor can call out to it without depending on any particular
// scripting engine.
package hook

import (
	"github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/model"
)

// PreRequestFunc runs before a request is prepared, with write access to
// the execution context — typically used to set runtime variables a
// script computed.
type PreRequestFunc func(ctx *context.Context, req *model.Request) error

// TestFunc runs after a response is received. It is not called for a
// request that failed before dispatch completed, so resp is never nil.
type TestFunc func(ctx *context.Context, req *model.Request, resp *dispatch.Response) error

// Hooks bundles the two script seams. Either field may be nil, in which
// case the executor skips that phase.
type Hooks struct {
	OnPreRequest PreRequestFunc
	OnTest       TestFunc
}
