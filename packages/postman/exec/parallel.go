package exec

import (
	gocontext "context"
	"sync"
	"sync/atomic"

	pmcontext "github.com/hitcall/hitcall/packages/postman/context"
	"github.com/hitcall/hitcall/packages/postman/model"
)

type flatEntry struct {
	Request   *model.Request
	Ancestors []*model.Folder
}

// flatten lists every Request under items in depth-first pre-order,
// each paired with its full ancestor chain (prefix + its own nested
// folders), outermost first.
func flatten(items []model.Item, prefix []*model.Folder) []flatEntry {
	var out []flatEntry
	for _, entry := range model.WalkRequests(items) {
		out = append(out, flatEntry{
			Request:   entry.Request,
			Ancestors: append(append([]*model.Folder(nil), prefix...), entry.Ancestors...),
		})
	}
	return out
}

// executeParallel dispatches every Request under items concurrently,
// bounded by e.options.Concurrency. Each worker gets an isolated
// Context derived from a single Snapshot taken before any worker
// starts, plus its own fresh runtime scope, so runtime-variable
// chaining across requests does not apply in parallel mode — only
// within one worker's own execution.
//
// Results are appended as each worker finishes, so
// CollectionExecutionResult.Results is in completion order, not source
// order; a caller that needs source order can re-sort using each
// ExecutionResult's Request identity and StartedAt.
func (e *Executor) executeParallel(goCtx gocontext.Context, items []model.Item, ancestors []*model.Folder, collection *model.Collection, execCtx *pmcontext.Context) *CollectionExecutionResult {
	entries := flatten(items, ancestors)
	n := len(entries)

	concurrency := e.options.Concurrency
	if concurrency <= 0 || concurrency > n {
		concurrency = n
	}
	if concurrency == 0 {
		return &CollectionExecutionResult{}
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var stopped int32
	result := &CollectionExecutionResult{}

	snapshot := execCtx.Snapshot()

	for _, entry := range entries {
		wg.Add(1)
		go func(entry flatEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if goCtx.Err() != nil || (e.options.StopOnError && atomic.LoadInt32(&stopped) == 1) {
				mu.Lock()
				result.record(&ExecutionResult{Request: entry.Request, Status: StatusSkipped})
				mu.Unlock()
				return
			}

			worker := pmcontext.NewWorkerContext(snapshot)
			for _, f := range entry.Ancestors {
				worker.PushFolder(folderVars(f))
			}

			r := e.ExecuteRequest(goCtx, worker, entry.Request, entry.Ancestors, collection, nil)
			mu.Lock()
			result.record(r)
			mu.Unlock()
			if e.options.StopOnError && r.Status != StatusDone {
				atomic.StoreInt32(&stopped, 1)
			}
		}(entry)
	}
	wg.Wait()

	result.StoppedEarly = atomic.LoadInt32(&stopped) == 1
	return result
}
