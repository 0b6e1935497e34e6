package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hitcall/hitcall/packages/postman/loader"
)

var validateSchemaFlag string

var validateCmd = &cobra.Command{
	Use:   "validate <collection.json>",
	Short: "Validate a collection file without executing it",
	Long: `Validate parses a collection file and reports structural or
schema errors without sending any requests.`,
	Args: cobra.ExactArgs(1),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().StringVar(&validateSchemaFlag, "schema", "", "path to a JSON schema to validate against")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var schemaJSON []byte
	if validateSchemaFlag != "" {
		schemaJSON, err = os.ReadFile(validateSchemaFlag)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
	}

	collection, err := loader.Load(data, loader.Options{SchemaJSON: schemaJSON})
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "invalid: %v\n", err)
		os.Exit(ExitLoadError)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "valid: %s (%d top-level items)\n", collection.Info.Name, len(collection.Items))
	return nil
}
