// Package validation reports visible required fields that are still empty.
package validation

import (
	"strings"

	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/visibility"
)

// BooleanPolicy selects how required checkbox fields are validated.
type BooleanPolicy int

const (
	// BooleanPolicyCompat never reports required checkboxes: a rendered
	// checkbox always stores a bool, and "False" is not empty.
	BooleanPolicyCompat BooleanPolicy = iota
	// BooleanPolicyRequireTrue flags required checkboxes that are not checked.
	BooleanPolicyRequireTrue
)

// Options configures Validate.
type Options struct {
	Booleans  BooleanPolicy
	Evaluator visibility.Evaluator
}

// Option mutates Options.
type Option func(*Options)

// WithBooleanPolicy selects the checkbox policy.
func WithBooleanPolicy(policy BooleanPolicy) Option {
	return func(opts *Options) {
		opts.Booleans = policy
	}
}

// WithEvaluator overrides the visibility evaluator.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(opts *Options) {
		if eval != nil {
			opts.Evaluator = eval
		}
	}
}

// Validate returns the labels of visible required fields whose value is empty,
// in schema order. Hidden fields are skipped even when they hold a value, and
// unsupported field types are never reported.
func Validate(s schema.Schema, answers session.Answers, options ...Option) []string {
	opts := Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	eval := visibility.Or(opts.Evaluator)

	var missing []string
	for _, field := range s.Fields {
		if !field.Required || !field.Type.Supported() {
			continue
		}
		if !eval.ShouldShow(field, answers) {
			continue
		}
		if isMissing(field, answers, opts.Booleans) {
			missing = append(missing, field.Label)
		}
	}
	return missing
}

func isMissing(field schema.Field, answers session.Answers, policy BooleanPolicy) bool {
	if field.Type == schema.FieldTypeBool {
		if policy == BooleanPolicyRequireTrue {
			return !answers.Bool(field.ID)
		}
		return false
	}
	value, ok := answers.Get(field.ID)
	if !ok {
		return true
	}
	return strings.TrimSpace(session.Stringify(value)) == ""
}
