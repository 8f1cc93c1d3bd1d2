package render

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/visibility"
)

// TextAreaFieldID is the text field rendered as a multi-line box.
const TextAreaFieldID = "complaint_details"

// ControlKind enumerates the input controls a field can render as.
type ControlKind string

const (
	ControlCheckbox  ControlKind = "checkbox"
	ControlTextInput ControlKind = "text"
	ControlTextArea  ControlKind = "textarea"
)

// Control is one rendered input, initialised from the stored answer.
type Control struct {
	Kind     ControlKind `json:"kind"`
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Help     string      `json:"help,omitempty"`
	Required bool        `json:"required,omitempty"`
	Checked  bool        `json:"checked,omitempty"`
	Value    string      `json:"value,omitempty"`
}

// Warning reports a field that could not be rendered.
type Warning struct {
	FieldID string           `json:"field_id"`
	Type    schema.FieldType `json:"type"`
	Message string           `json:"message"`
}

// View is the ordered set of controls for the currently visible fields.
type View struct {
	Controls []Control `json:"controls"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// ControlFor maps a field onto its control kind. The boolean is false for
// unsupported field types.
func ControlFor(field schema.Field) (ControlKind, bool) {
	switch field.Type {
	case schema.FieldTypeBool:
		return ControlCheckbox, true
	case schema.FieldTypeText:
		if field.ID == TextAreaFieldID {
			return ControlTextArea, true
		}
		return ControlTextInput, true
	default:
		return "", false
	}
}

// Controls builds the view for s against answers. Fields are walked in schema
// order; hidden fields are skipped and unsupported types become warnings.
func Controls(s schema.Schema, answers session.Answers, eval visibility.Evaluator) View {
	eval = visibility.Or(eval)

	view := View{Controls: make([]Control, 0, len(s.Fields))}
	for _, field := range s.Fields {
		if !eval.ShouldShow(field, answers) {
			continue
		}
		kind, ok := ControlFor(field)
		if !ok {
			view.Warnings = append(view.Warnings, unsupported(field))
			continue
		}
		ctrl := Control{
			Kind:     kind,
			ID:       field.ID,
			Label:    field.Label,
			Help:     field.Help,
			Required: field.Required,
		}
		if kind == ControlCheckbox {
			ctrl.Checked = answers.Bool(field.ID)
		} else {
			ctrl.Value = answers.String(field.ID)
		}
		view.Controls = append(view.Controls, ctrl)
	}
	return view
}

// Input supplies submitted control values by field id.
type Input interface {
	Lookup(id string) (string, bool)
}

// FormInput adapts url.Values (a parsed HTML form) into an Input.
type FormInput url.Values

// Lookup returns the first value submitted for id.
func (f FormInput) Lookup(id string) (string, bool) {
	values, ok := f[id]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// MapInput is an Input backed by a plain map, handy for tests and the CLI.
type MapInput map[string]string

// Lookup returns the value stored for id.
func (m MapInput) Lookup(id string) (string, bool) {
	v, ok := m[id]
	return v, ok
}

// Bind writes submitted values back into answers, replaying the render pass:
// fields are visited in schema order and visibility is evaluated against the
// answers already updated earlier in the pass. A checkbox missing from input
// stores false and a text field missing from input stores "". Hidden fields
// keep whatever they held before.
func Bind(s schema.Schema, answers session.Answers, input Input, eval visibility.Evaluator) []Warning {
	eval = visibility.Or(eval)

	var warnings []Warning
	for _, field := range s.Fields {
		if !eval.ShouldShow(field, answers) {
			continue
		}
		kind, ok := ControlFor(field)
		if !ok {
			warnings = append(warnings, unsupported(field))
			continue
		}
		raw, present := lookup(input, field.ID)
		switch kind {
		case ControlCheckbox:
			answers.Set(field.ID, present && checkboxOn(raw))
		case ControlTextInput, ControlTextArea:
			answers.Set(field.ID, raw)
		}
	}
	return warnings
}

func lookup(input Input, id string) (string, bool) {
	if input == nil {
		return "", false
	}
	return input.Lookup(id)
}

func checkboxOn(raw string) bool {
	switch raw {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}

func unsupported(field schema.Field) Warning {
	return Warning{
		FieldID: field.ID,
		Type:    field.Type,
		Message: fmt.Sprintf("Unsupported field type: %s", field.Type),
	}
}
