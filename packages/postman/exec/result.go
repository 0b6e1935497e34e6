package exec

import (
	"time"

	"github.com/hitcall/hitcall/packages/postman/auth"
	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

// Status names a stage in one request's execution lifecycle.
type Status string

const (
	StatusPending     Status = "pending"
	StatusPreparing   Status = "preparing"
	StatusDispatching Status = "dispatching"
	StatusScripting   Status = "scripting"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
	StatusSkipped     Status = "skipped"
)

// ExecutionResult is the structured outcome of executing one Request. A
// failed result always carries a non-empty ErrorKind, drawn from the
// fixed dispatch.ErrorKind taxonomy, even when Error itself did not
// originate in the dispatcher (see errorKind).
type ExecutionResult struct {
	Request     *model.Request
	Status      Status
	AuthSource  auth.Source
	WireRequest *wire.Request
	Response    *dispatch.Response
	Diagnostics []resolve.Diagnostic
	Error       error
	ErrorKind   dispatch.ErrorKind
	StartedAt   time.Time
	Duration    time.Duration
}

// CollectionExecutionResult is the structured outcome of executing a
// Folder or Collection: every ExecutionResult produced. Sequential mode
// reports them in declaration order; parallel mode reports them in
// completion order (see executeParallel).
type CollectionExecutionResult struct {
	Results      []*ExecutionResult
	Passed       int
	Failed       int
	Skipped      int
	StoppedEarly bool
	Duration     time.Duration
}

func (c *CollectionExecutionResult) record(r *ExecutionResult) {
	c.Results = append(c.Results, r)
	switch r.Status {
	case StatusDone:
		c.Passed++
	case StatusSkipped:
		c.Skipped++
	default:
		c.Failed++
	}
}
