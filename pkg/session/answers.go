package session

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-grievance/pkg/schema"
)

// Answers maps field ids to the value the user entered: a bool for checkbox
// fields and a string for text fields. Values of fields that become hidden are
// kept as-is.
type Answers map[string]any

// Get returns the raw value stored for id.
func (a Answers) Get(id string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a[id]
	return v, ok
}

// Set stores value under id.
func (a Answers) Set(id string, value any) {
	if a == nil {
		return
	}
	a[id] = value
}

// Bool reports the truthiness of the stored value; absent ids are false.
func (a Answers) Bool(id string) bool {
	v, ok := a.Get(id)
	if !ok {
		return false
	}
	return Truthy(v)
}

// String returns the stored value for text controls. Absent ids and nil values
// yield "", strings are returned verbatim and other values are stringified.
func (a Answers) String(id string) string {
	v, ok := a.Get(id)
	if !ok || v == nil {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return Stringify(v)
}

// Clone returns a deep copy of the answers.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = deepCopy(v)
	}
	return out
}

// Truthy mirrors the loose truth test used for checkbox defaults: false, nil,
// zero numbers, and empty strings/collections are false.
func Truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case float64:
		return typed != 0
	case int:
		return typed != 0
	case json.Number:
		f, err := typed.Float64()
		return err != nil || f != 0
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}

// Stringify renders a value the way it appears in the packet: True/False for
// booleans, None for nil, strings verbatim, integral floats with a trailing
// ".0".
func Stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return "None"
	case bool:
		if typed {
			return "True"
		}
		return "False"
	case string:
		return typed
	case json.Number:
		return typed.String()
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return schema.FormatFloat(typed)
	case float32:
		return schema.FormatFloat(float64(typed))
	default:
		return fmt.Sprint(typed)
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
