package output

import (
	"encoding/json"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// jsonResult and jsonEntry are the wire shape of a CollectionExecutionResult
// — errors are flattened to strings since exec.ExecutionResult.Error is a
// plain Go error, not itself serializable.
type jsonResult struct {
	Passed       int         `json:"passed"`
	Failed       int         `json:"failed"`
	Skipped      int         `json:"skipped"`
	StoppedEarly bool        `json:"stoppedEarly"`
	DurationMs   int64       `json:"durationMs"`
	Results      []jsonEntry `json:"results"`
}

type jsonEntry struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	DurationMs int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// FormatJSON renders result as indented JSON.
func FormatJSON(result *exec.CollectionExecutionResult) ([]byte, error) {
	out := jsonResult{
		Passed:       result.Passed,
		Failed:       result.Failed,
		Skipped:      result.Skipped,
		StoppedEarly: result.StoppedEarly,
		DurationMs:   result.Duration.Milliseconds(),
	}
	for _, r := range result.Results {
		entry := jsonEntry{
			Name:       r.Request.Name,
			Status:     string(r.Status),
			DurationMs: r.Duration.Milliseconds(),
		}
		if r.Response != nil {
			entry.StatusCode = r.Response.StatusCode
		}
		if r.Error != nil {
			entry.Error = r.Error.Error()
		}
		out.Results = append(out.Results, entry)
	}
	return json.MarshalIndent(out, "", "  ")
}
