// Package loader decodes a Postman v2.0 or v2.1 collection JSON document into
// the in-memory tree defined by packages/postman/model. Full collection
// validation is treated as an opaque external concern; this package is
// the one concrete adapter this module ships, kept deliberately
// separate from packages/postman/exec so alternate loaders can replace
// it.
package loader

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hitcall/hitcall/packages/postman/model"
)

// Options configures Load.
type Options struct {
	// SchemaJSON, if non-empty, is validated against data before
	// decoding.
	SchemaJSON []byte
}

// Load decodes a Postman v2.0 or v2.1 collection document into a
// model.Collection; any other schema version fails with a *SchemaError.
func Load(data []byte, opts Options) (*model.Collection, error) {
	if len(opts.SchemaJSON) > 0 {
		if err := validateSchema(opts.SchemaJSON, data); err != nil {
			return nil, err
		}
	}

	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("loader: decoding collection: %w", err)
	}
	return convertCollection(&raw)
}

func validateSchema(schemaJSON, documentJSON []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(documentJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("loader: schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return &SchemaError{Violations: msgs}
}

// SchemaError reports every schema violation found, rather than only
// the first, so a caller can surface a complete diagnostic.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("loader: collection failed schema validation (%d violation(s))", len(e.Violations))
}
