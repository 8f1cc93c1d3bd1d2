package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a Document into a Schema. YAML is used when the document
// location carries a .yaml/.yml extension, JSON otherwise.
func Parse(doc Document) (Schema, error) {
	raw := doc.raw
	if len(bytes.TrimSpace(raw)) == 0 {
		return Schema{}, ErrEmptyDocument
	}

	var out Schema
	if doc.IsYAML() {
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return Schema{}, fmt.Errorf("schema: decode yaml %s: %w", doc.Location(), err)
		}
		out.normalizeRules()
		return out, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return Schema{}, fmt.Errorf("schema: decode json %s: %w", doc.Location(), err)
	}
	return out, nil
}

// MustParse panics when the document cannot be decoded. Useful for tests.
func MustParse(doc Document) Schema {
	out, err := Parse(doc)
	if err != nil {
		panic(err)
	}
	return out
}

// normalizeRules widens YAML integers to float64 so equality against answers
// decoded from JSON behaves the same regardless of the authoring format.
func (s *Schema) normalizeRules() {
	for idx := range s.Fields {
		rule := s.Fields[idx].ShowIf
		if rule == nil {
			continue
		}
		switch v := rule.Equals.(type) {
		case int:
			rule.Equals = float64(v)
		case int64:
			rule.Equals = float64(v)
		case uint64:
			rule.Equals = float64(v)
		}
	}
}
