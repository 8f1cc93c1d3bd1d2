// Package grievance is the top-level entry point for the grievance filing
// companion. It re-exports the constructors most callers need so a form can be
// loaded, validated, and turned into a submission packet with one import.
package grievance

import (
	"context"

	"github.com/goliatone/go-grievance/pkg/companion"
	"github.com/goliatone/go-grievance/pkg/packet"
	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/validation"
)

// Answers aliases session.Answers for callers building packets directly.
type Answers = session.Answers

// NewCompanion exposes the companion constructor from the top-level module.
func NewCompanion(options ...companion.Option) *companion.Companion {
	return companion.New(options...)
}

// LoadSchema loads and parses the schema behind src with the built-in loader.
func LoadSchema(ctx context.Context, src schema.Source, options ...schema.LoaderOption) (schema.Schema, error) {
	return schema.LoadSchema(ctx, NewLoader(options...), src)
}

// Missing reports the labels of visible required fields without a value.
func Missing(s schema.Schema, answers Answers, options ...validation.Option) []string {
	return validation.Validate(s, answers, options...)
}

// BuildPacket renders the submission packet text for answers.
func BuildPacket(s schema.Schema, answers Answers) string {
	return packet.Build(s, answers)
}
