package model

import (
	"fmt"
	"strings"
)

// ConfigError holds the field-level problems found while validating chart
// input. It is returned at construction time, never from a render path.
type ConfigError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the configuration error as a semicolon-separated list of field messages.
func (e *ConfigError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "invalid chart configuration: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the configuration error contains any field errors.
func (e *ConfigError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Add records a field error.
func (e *ConfigError) Add(field, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns e when it holds errors, nil otherwise.
func (e *ConfigError) Err() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// ValidateNodes checks ids are present and unique and that every position
// lies within [0,100] on both axes.
func ValidateNodes(nodes []Node) error {
	var ce ConfigError
	seen := make(map[string]int, len(nodes))
	for i, n := range nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		if strings.TrimSpace(n.ID) == "" {
			ce.Add(field+".id", "is required")
		} else if prev, dup := seen[n.ID]; dup {
			ce.Add(field+".id", "duplicates nodes[%d] (%q)", prev, n.ID)
		} else {
			seen[n.ID] = i
		}
		if n.X < 0 || n.X > 100 {
			ce.Add(field+".x", "must be between 0 and 100, got %g", n.X)
		}
		if n.Y < 0 || n.Y > 100 {
			ce.Add(field+".y", "must be between 0 and 100, got %g", n.Y)
		}
	}
	return ce.Err()
}
