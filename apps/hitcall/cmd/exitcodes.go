package cmd

// Exit codes reported by the hitcall CLI.
const (
	// ExitSuccess indicates every request passed.
	ExitSuccess = 0

	// ExitTestFailure indicates one or more requests failed.
	ExitTestFailure = 1

	// ExitLoadError indicates the collection could not be parsed or
	// failed schema validation.
	ExitLoadError = 2

	// ExitConfigError indicates a configuration file or flag error.
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage.
	ExitUsageError = 64
)
