package schema

import "strings"

// FieldType enumerates the input kinds a schema may declare. The set is closed:
// renderers switch over every member and treat anything else as unsupported.
type FieldType string

const (
	FieldTypeBool FieldType = "bool"
	FieldTypeText FieldType = "text"
)

// Supported reports whether the type is one the form knows how to render.
func (t FieldType) Supported() bool {
	switch t {
	case FieldTypeBool, FieldTypeText:
		return true
	default:
		return false
	}
}

// Schema is the static description of a grievance form: portal metadata, the
// ordered fields, and attachment rules.
type Schema struct {
	PortalID        string      `json:"portal_id" yaml:"portal_id"`
	PortalName      string      `json:"portal_name" yaml:"portal_name"`
	OfficialFormURL string      `json:"official_form_url" yaml:"official_form_url"`
	Fields          []Field     `json:"fields" yaml:"fields"`
	Attachments     Attachments `json:"attachments" yaml:"attachments"`
}

// Field declares one input element and its visibility precondition.
type Field struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	ShowIf   *Rule     `json:"show_if,omitempty" yaml:"show_if,omitempty"`
	Help     string    `json:"help,omitempty" yaml:"help,omitempty"`
}

// Rule is a single equality condition against a prior answer.
type Rule struct {
	Field  string `json:"field" yaml:"field"`
	Equals any    `json:"equals" yaml:"equals"`
}

// Attachments carries the upload guidance printed in the packet.
type Attachments struct {
	AllowedTypes []string `json:"allowed_types" yaml:"allowed_types"`
	MaxSizeMB    Size     `json:"max_size_mb" yaml:"max_size_mb"`
}

// Field returns the field with the given id.
func (s Schema) Field(id string) (Field, bool) {
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Validate reports structural problems that the runtime path tolerates but an
// author would want to fix: blank or duplicate ids, blank labels, and rules
// that point at unknown or later fields.
func (s Schema) Validate() error {
	var issues []Issue
	if strings.TrimSpace(s.PortalID) == "" {
		issues = append(issues, Issue{Message: "portal_id is required"})
	}

	seen := make(map[string]int, len(s.Fields))
	for idx, field := range s.Fields {
		id := strings.TrimSpace(field.ID)
		if id == "" {
			issues = append(issues, Issue{Message: "field id is required"})
			continue
		}
		if _, dup := seen[id]; dup {
			issues = append(issues, Issue{FieldID: id, Message: "duplicate field id"})
		}
		seen[id] = idx
		if strings.TrimSpace(field.Label) == "" {
			issues = append(issues, Issue{FieldID: id, Message: "label is required"})
		}
		if !field.Type.Supported() {
			issues = append(issues, Issue{FieldID: id, Message: "unsupported field type " + string(field.Type)})
		}
	}

	for _, field := range s.Fields {
		if field.ShowIf == nil {
			continue
		}
		target, ok := seen[field.ShowIf.Field]
		switch {
		case !ok:
			issues = append(issues, Issue{FieldID: field.ID, Message: "show_if references unknown field " + field.ShowIf.Field})
		case target >= seen[field.ID]:
			issues = append(issues, Issue{FieldID: field.ID, Message: "show_if must reference an earlier field"})
		}
	}

	if len(issues) > 0 {
		return &SchemaError{Issues: issues}
	}
	return nil
}
