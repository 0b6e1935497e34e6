package coverage

import (
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/exec"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

const sampleSpec = `
openapi: 3.0.0
paths:
  /users/{id}:
    get:
      operationId: getUser
      tags: [users]
  /users:
    post:
      operationId: createUser
      tags: [users]
`

func newAnalyzerFromString(t *testing.T, yamlDoc string) *Analyzer {
	t.Helper()
	path := t.TempDir() + "/spec.yaml"
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))
	a := NewAnalyzer()
	require.NoError(t, a.LoadOpenAPI(path))
	return a
}

func TestAnalyzeReportsCoveredAndUncoveredEndpoints(t *testing.T) {
	a := newAnalyzerFromString(t, sampleSpec)

	getUserURL, err := url.Parse("https://api.example.com/users/42")
	require.NoError(t, err)

	result := &exec.CollectionExecutionResult{
		Results: []*exec.ExecutionResult{
			{Status: exec.StatusDone, WireRequest: &wire.Request{Method: "GET", URL: getUserURL}},
		},
	}

	report := a.Analyze(result)
	assert.Equal(t, 2, report.TotalEndpoints)
	assert.Equal(t, 1, report.CoveredEndpoints)
	assert.InDelta(t, 50.0, report.CoveragePercent, 0.01)

	require.Contains(t, report.ByTag, "users")
	assert.Equal(t, 1, report.ByTag["users"].CoveredEndpoints)
}

func TestAnalyzeSkipsSkippedResults(t *testing.T) {
	a := newAnalyzerFromString(t, sampleSpec)
	result := &exec.CollectionExecutionResult{
		Results: []*exec.ExecutionResult{
			{Status: exec.StatusSkipped, WireRequest: nil},
		},
	}
	report := a.Analyze(result)
	assert.Equal(t, 0, report.CoveredEndpoints)
}
