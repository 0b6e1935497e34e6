package exec

import (
	gocontext "context"
	"time"

	pmcontext "github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/model"
)

// ExecuteCollection runs every Item in collection.Items, in parallel or
// sequential mode per e.options.Parallel.
func (e *Executor) ExecuteCollection(goCtx gocontext.Context, collection *model.Collection, execCtx *pmcontext.Context) *CollectionExecutionResult {
	start := time.Now()
	var result *CollectionExecutionResult
	if e.options.Parallel {
		result = e.executeParallel(goCtx, collection.Items, nil, collection, execCtx)
	} else {
		result = &CollectionExecutionResult{}
		e.executeItemsSequential(goCtx, collection.Items, nil, collection, execCtx, result)
	}
	result.Duration = time.Since(start)
	return result
}

// ExecuteFolder runs every Item under folder, with folder itself treated
// as the innermost ancestor (ancestors must already include folder's own
// parents, outermost first, NOT folder itself).
func (e *Executor) ExecuteFolder(goCtx gocontext.Context, folder *model.Folder, ancestors []*model.Folder, collection *model.Collection, execCtx *pmcontext.Context) *CollectionExecutionResult {
	start := time.Now()
	var result *CollectionExecutionResult
	fullAncestors := append(append([]*model.Folder(nil), ancestors...), folder)
	if e.options.Parallel {
		result = e.executeParallel(goCtx, folder.Items, fullAncestors, collection, execCtx)
	} else {
		result = &CollectionExecutionResult{}
		execCtx.PushFolder(folderVars(folder))
		e.executeItemsSequential(goCtx, folder.Items, fullAncestors, collection, execCtx, result)
		execCtx.PopFolder()
	}
	result.Duration = time.Since(start)
	return result
}

// executeItemsSequential walks items depth-first in declaration order,
// pushing/popping a folder scope on entry/exit of each Folder so nested
// Requests see their full ancestor variable chain, and chaining runtime
// variables written by one Request's hooks forward to the next since
// execCtx is shared and mutated in place.
func (e *Executor) executeItemsSequential(goCtx gocontext.Context, items []model.Item, ancestors []*model.Folder, collection *model.Collection, execCtx *pmcontext.Context, result *CollectionExecutionResult) {
	for _, item := range items {
		if goCtx.Err() != nil {
			result.StoppedEarly = true
			return
		}
		switch v := item.(type) {
		case *model.Request:
			r := e.ExecuteRequest(goCtx, execCtx, v, ancestors, collection, nil)
			result.record(r)
			if e.options.StopOnError && r.Status != StatusDone {
				result.StoppedEarly = true
				return
			}
		case *model.Folder:
			execCtx.PushFolder(folderVars(v))
			childAncestors := append(append([]*model.Folder(nil), ancestors...), v)
			e.executeItemsSequential(goCtx, v.Items, childAncestors, collection, execCtx, result)
			execCtx.PopFolder()
			if result.StoppedEarly {
				return
			}
		}
	}
}
