// Package exec composes variable resolution (resolve), auth resolution
// (auth), request preparation (prepare), and dispatch (dispatch) into
// three operations: execute_request, execute_folder, and
// execute_collection, walking the full Collection tree with its
// folder-scoped variables.
package exec

import (
	gocontext "context"
	"errors"
	"time"

	"github.com/hitcall/hitcall/packages/postman/auth"
	pmcontext "github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/hook"
	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/prepare"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

// Options configures an Executor.
type Options struct {
	// Parallel runs every request in a Folder/Collection concurrently
	// instead of depth-first in declaration order.
	Parallel bool
	// Concurrency bounds the number of in-flight requests when Parallel
	// is set. Zero or negative means unbounded up to len(requests).
	Concurrency int
	// StopOnError halts sequential execution (or stops launching new
	// parallel work) after the first failed request.
	StopOnError bool
	// Policy governs unresolved-template reporting.
	Policy resolve.UndefinedPolicy
	// BaseDir anchors relative file paths in request bodies.
	BaseDir string
	// Builtins overrides the default $-prefixed dynamic variable set.
	Builtins *resolve.BuiltinRegistry
	// StrictHooks fails a request when its OnPreRequest/OnTest hook
	// returns an error. When false (the default), a hook error is
	// recorded as a diagnostic and the request's own outcome still
	// decides pass/fail.
	StrictHooks bool
}

// Executor runs requests drawn from a Collection tree against a
// Dispatcher, threading variable and auth resolution through each.
type Executor struct {
	dispatcher *dispatch.Dispatcher
	hooks      hook.Hooks
	options    Options
}

// New builds an Executor.
func New(dispatcher *dispatch.Dispatcher, hooks hook.Hooks, options Options) *Executor {
	return &Executor{dispatcher: dispatcher, hooks: hooks, options: options}
}

// RootContext seeds a fresh execution Context from a Collection's own
// variable declarations plus caller-supplied global/environment values.
// Environment values take precedence over global ones, and the
// collection's own Variables take precedence over both, matching the
// six-scope ordering in packages/postman/context.
func RootContext(collection *model.Collection, global, environment map[string]string) *pmcontext.Context {
	ctx := pmcontext.New()
	ctx.SetAll(pmcontext.ScopeGlobal, global)
	ctx.SetAll(pmcontext.ScopeEnvironment, environment)
	if collection != nil {
		for _, v := range collection.Variables {
			ctx.SetWithEnabled(pmcontext.ScopeCollection, v.Key, v.Value, !v.Disabled)
		}
	}
	return ctx
}

func folderVars(f *model.Folder) map[string]string {
	out := map[string]string{}
	for _, v := range f.Variables {
		if v.Disabled {
			continue
		}
		out[v.Key] = v.Value
	}
	return out
}

func requestVars(r *model.Request) map[string]string {
	out := map[string]string{}
	for _, v := range r.Variables {
		if v.Disabled {
			continue
		}
		out[v.Key] = v.Value
	}
	return out
}

// ExecuteRequest runs a single Request: hook.OnPreRequest, prepare,
// dispatch, hook.OnTest, in that order. ancestors must be in
// outermost-first order (as returned by model.Ancestors).
func (e *Executor) ExecuteRequest(goCtx gocontext.Context, execCtx *pmcontext.Context, req *model.Request, ancestors []*model.Folder, collection *model.Collection, ext *prepare.Extensions) *ExecutionResult {
	start := time.Now()
	result := &ExecutionResult{Request: req, Status: StatusPending, StartedAt: start}

	for k, v := range requestVars(req) {
		execCtx.Set(pmcontext.ScopeRequest, k, v)
	}
	defer clearRequestScope(execCtx, req)

	result.AuthSource = auth.Resolve(req, ancestors, collection).Source

	result.Status = StatusPreparing
	if e.hooks.OnPreRequest != nil {
		if err := e.hooks.OnPreRequest(execCtx, req); err != nil {
			if e.options.StrictHooks {
				result.Status = StatusFailed
				result.Error = err
				result.ErrorKind = errorKind(err)
				result.Duration = time.Since(start)
				return result
			}
			result.Diagnostics = append(result.Diagnostics, resolve.Diagnostic{
				Kind: resolve.DiagHookError, Key: "on_pre_request", Message: err.Error(),
			})
		}
	}

	wireReq, diags, err := prepare.Prepare(req, ancestors, collection, execCtx, prepare.Options{
		BaseDir:    e.options.BaseDir,
		Policy:     e.options.Policy,
		Builtins:   e.options.Builtins,
		Extensions: ext,
	})
	result.Diagnostics = append(result.Diagnostics, diags...)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		result.ErrorKind = errorKind(err)
		result.Duration = time.Since(start)
		return result
	}
	result.WireRequest = wireReq

	result.Status = StatusDispatching
	resp, err := e.dispatcher.Do(goCtx, wireReq)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		result.ErrorKind = errorKind(err)
		result.Duration = time.Since(start)
		return result
	}
	result.Response = resp

	result.Status = StatusScripting
	if e.hooks.OnTest != nil {
		if err := e.hooks.OnTest(execCtx, req, resp); err != nil {
			if e.options.StrictHooks {
				result.Status = StatusFailed
				result.Error = err
				result.ErrorKind = errorKind(err)
				result.Duration = time.Since(start)
				return result
			}
			result.Diagnostics = append(result.Diagnostics, resolve.Diagnostic{
				Kind: resolve.DiagHookError, Key: "on_test", Message: err.Error(),
			})
		}
	}

	result.Status = StatusDone
	result.Duration = time.Since(start)
	return result
}

// errorKind maps err into the fixed dispatch.ErrorKind taxonomy. Errors
// originating in the Dispatcher already carry their real kind; a bare
// context cancellation or deadline maps to Cancelled or Timeout; anything
// else (a prepare error, a strict hook failure) is reported as
// ProtocolError since every failed result must carry a non-empty kind.
func errorKind(err error) dispatch.ErrorKind {
	var transportErr *dispatch.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Kind
	}
	if errors.Is(err, gocontext.Canceled) {
		return dispatch.KindCancelled
	}
	if errors.Is(err, gocontext.DeadlineExceeded) {
		return dispatch.KindTimeout
	}
	return dispatch.KindProtocolError
}

func clearRequestScope(ctx *pmcontext.Context, req *model.Request) {
	for _, v := range req.Variables {
		ctx.SetWithEnabled(pmcontext.ScopeRequest, v.Key, "", false)
	}
}
