package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hitcall",
	Short: "Execute Postman-style API collections from the command line",
	Long: `hitcall loads a Postman-shaped collection (collection, folders,
requests, hierarchical auth and variables) and runs its requests against
live servers, reporting results as console, JSON, JUnit, or TAP output.`,
}

// Execute runs the root command, exiting the process on failure.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
