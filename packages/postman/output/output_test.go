package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/exec"
	"github.com/hitcall/hitcall/packages/postman/model"
)

func sampleResult() *exec.CollectionExecutionResult {
	return &exec.CollectionExecutionResult{
		Passed: 1, Failed: 1, Skipped: 0, Duration: 2 * time.Second,
		Results: []*exec.ExecutionResult{
			{Request: &model.Request{Name: "ok"}, Status: exec.StatusDone, Duration: time.Second},
			{Request: &model.Request{Name: "bad"}, Status: exec.StatusFailed, Error: errors.New("boom"), Duration: time.Second},
		},
	}
}

func TestConsoleFormatterWritesPassAndFail(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewConsoleFormatter(WithWriter(buf), WithNoColor(true), WithVerbose(true))
	f.FormatResult(sampleResult())
	out := buf.String()
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "bad")
	assert.Contains(t, out, "boom")
}

func TestFormatJSONShape(t *testing.T) {
	data, err := FormatJSON(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"passed": 1`)
	assert.Contains(t, string(data), `"error": "boom"`)
}

func TestFormatJUnitShape(t *testing.T) {
	data, err := FormatJUnit("suite", sampleResult())
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testsuite`)
	assert.Contains(t, string(data), `name="bad"`)
}

func TestTAPFormatterShape(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewTAPFormatter(TAPWithWriter(buf))
	f.FormatResult(sampleResult())
	out := buf.String()
	assert.Contains(t, out, "1..2")
	assert.Contains(t, out, "ok 1 - ok")
	assert.Contains(t, out, "not ok 2 - bad")
}
