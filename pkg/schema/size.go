package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size keeps the literal text of a numeric schema value so it can be printed
// the way it was authored: "10" stays "10" and "10.0" stays "10.0".
type Size struct {
	raw string
}

// NewSize builds a Size from a numeric literal.
func NewSize(literal string) (Size, error) {
	trimmed := strings.TrimSpace(literal)
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return Size{}, fmt.Errorf("schema: invalid size %q: %w", literal, err)
	}
	return Size{raw: trimmed}, nil
}

// IsZero reports whether the size was never set.
func (s Size) IsZero() bool {
	return s.raw == ""
}

// Float returns the numeric value; unset sizes report 0.
func (s Size) Float() float64 {
	if s.raw == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s.raw, 64)
	return f
}

// String renders integers verbatim and decimals in their shortest float form
// with a trailing ".0" when integral. Unset sizes render as "None".
func (s Size) String() string {
	if s.raw == "" {
		return "None"
	}
	if !strings.ContainsAny(s.raw, ".eE") {
		if n, err := strconv.ParseInt(s.raw, 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return s.raw
	}
	return FormatFloat(s.Float())
}

// FormatFloat renders f in shortest round-trip form, always carrying a decimal
// point or exponent so floats stay distinguishable from integers.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// MarshalJSON emits the literal as a JSON number, or null when unset.
func (s Size) MarshalJSON() ([]byte, error) {
	if s.raw == "" {
		return []byte("null"), nil
	}
	return []byte(s.raw), nil
}

// UnmarshalJSON accepts JSON numbers and null.
func (s *Size) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		s.raw = ""
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("schema: max_size_mb must be a number: %w", err)
	}
	parsed, err := NewSize(num.String())
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML accepts numeric scalars and null.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("schema: max_size_mb must be a scalar (line %d)", value.Line)
	}
	switch value.ShortTag() {
	case "!!null":
		s.raw = ""
		return nil
	case "!!int", "!!float":
	default:
		return fmt.Errorf("schema: max_size_mb must be a number (line %d)", value.Line)
	}
	parsed, err := NewSize(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
