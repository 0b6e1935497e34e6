package auth

import "fmt"

// ConfigError reports a missing or invalid auth parameter, or an auth
// type with no available implementation, naming the offending type and
// field.
type ConfigError struct {
	Type    string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("auth: %s: %s (field %q)", e.Type, e.Message, e.Field)
	}
	return fmt.Sprintf("auth: %s: %s", e.Type, e.Message)
}

func missingParam(authType, field string) error {
	return &ConfigError{Type: authType, Field: field, Message: "missing required parameter"}
}

func unsupported(authType string) error {
	return &ConfigError{Type: authType, Message: "no implementation available for this auth type"}
}
