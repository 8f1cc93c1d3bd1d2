package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSource is returned when a document is created without a source.
	ErrMissingSource = errors.New("schema: source is required")
	// ErrEmptyDocument is returned for blank payloads.
	ErrEmptyDocument = errors.New("schema: raw document is empty")
	// ErrMissingLoader is returned by LoadSchema when no loader is configured.
	ErrMissingLoader = errors.New("schema: loader is required")
)

// Issue describes one structural problem found by Schema.Validate.
type Issue struct {
	FieldID string
	Message string
}

func (i Issue) String() string {
	if i.FieldID == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.FieldID, i.Message)
}

// SchemaError aggregates the issues reported by Schema.Validate.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "schema: invalid document"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "schema: invalid document: " + strings.Join(parts, "; ")
}
