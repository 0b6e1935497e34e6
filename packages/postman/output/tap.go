package output

import (
	"fmt"
	"io"
	"os"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// TAPFormatter writes Test Anything Protocol output.
type TAPFormatter struct {
	writer io.Writer
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) { f.writer = w }
}

// FormatResult writes result as a TAP stream.
func (f *TAPFormatter) FormatResult(result *exec.CollectionExecutionResult) {
	fmt.Fprintf(f.writer, "1..%d\n", len(result.Results))
	for i, r := range result.Results {
		n := i + 1
		switch r.Status {
		case exec.StatusDone:
			fmt.Fprintf(f.writer, "ok %d - %s\n", n, r.Request.Name)
		case exec.StatusSkipped:
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP\n", n, r.Request.Name)
		default:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, r.Request.Name)
			if r.Error != nil {
				fmt.Fprintf(f.writer, "  ---\n  message: %q\n  ...\n", r.Error.Error())
			}
		}
	}
}
