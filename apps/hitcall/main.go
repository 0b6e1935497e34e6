// Command hitcall runs Postman-style API collections from the command
// line: resolve → auth → dispatch, reported as console, JSON, JUnit, or
// TAP output.
package main

import "github.com/hitcall/hitcall/apps/hitcall/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
