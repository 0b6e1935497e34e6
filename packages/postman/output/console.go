// Package output renders an exec.CollectionExecutionResult in several
// formats: a colored console summary, JSON, JUnit XML, and TAP.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// ConsoleFormatter writes a human-readable summary, colorized unless
// NoColor is set.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

// ConsoleOption configures a ConsoleFormatter.
type ConsoleOption func(*ConsoleFormatter)

// NewConsoleFormatter builds a ConsoleFormatter writing to os.Stdout by
// default.
func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption  { return func(f *ConsoleFormatter) { f.writer = w } }
func WithVerbose(v bool) ConsoleOption      { return func(f *ConsoleFormatter) { f.verbose = v } }
func WithNoColor(nc bool) ConsoleOption     { return func(f *ConsoleFormatter) { f.noColor = nc } }

// FormatResult writes the summary for result.
func (f *ConsoleFormatter) FormatResult(result *exec.CollectionExecutionResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, r := range result.Results {
		switch r.Status {
		case exec.StatusDone:
			green.Fprintf(f.writer, "  PASS  %s", r.Request.Name)
		case exec.StatusSkipped:
			yellow.Fprintf(f.writer, "  SKIP  %s", r.Request.Name)
		default:
			red.Fprintf(f.writer, "  FAIL  %s", r.Request.Name)
		}
		fmt.Fprintf(f.writer, " (%s)\n", r.Duration)
		if f.verbose && r.Error != nil {
			fmt.Fprintf(f.writer, "        %v\n", r.Error)
		}
		if f.verbose && r.Response != nil {
			fmt.Fprintf(f.writer, "        -> %d %s\n", r.Response.StatusCode, r.Response.Status)
		}
	}

	fmt.Fprintf(f.writer, "\n%d passed, %d failed, %d skipped (%s)\n",
		result.Passed, result.Failed, result.Skipped, result.Duration)
	if result.StoppedEarly {
		yellow.Fprintln(f.writer, "execution stopped early")
	}
}
