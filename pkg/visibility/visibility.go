// Package visibility decides whether a schema field is currently shown. A
// field without a show_if rule is always visible; otherwise it is visible only
// while the referenced answer equals the rule value exactly.
package visibility

import (
	"reflect"

	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
)

// Evaluator determines whether a field should be visible given the current
// answers.
type Evaluator interface {
	ShouldShow(field schema.Field, answers session.Answers) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field schema.Field, answers session.Answers) bool

// ShouldShow delegates to the underlying function.
func (fn EvaluatorFunc) ShouldShow(field schema.Field, answers session.Answers) bool {
	return fn(field, answers)
}

// Default returns the equality evaluator used throughout the module.
func Default() Evaluator {
	return EvaluatorFunc(ShouldShow)
}

// Or returns eval, falling back to Default when nil.
func Or(eval Evaluator) Evaluator {
	if eval == nil {
		return Default()
	}
	return eval
}

// ShouldShow reports whether field is visible. An unanswered dependency keeps
// the field hidden. Values are compared without coercion: true never equals
// "true" or 1.
func ShouldShow(field schema.Field, answers session.Answers) bool {
	rule := field.ShowIf
	if rule == nil {
		return true
	}
	current, ok := answers.Get(rule.Field)
	if !ok {
		return false
	}
	return equal(current, rule.Equals)
}

// VisibleFields returns the fields of s that are visible against answers, in
// schema order.
func VisibleFields(s schema.Schema, answers session.Answers, eval Evaluator) []schema.Field {
	eval = Or(eval)
	out := make([]schema.Field, 0, len(s.Fields))
	for _, field := range s.Fields {
		if eval.ShouldShow(field, answers) {
			out = append(out, field)
		}
	}
	return out
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
