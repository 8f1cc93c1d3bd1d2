// Package tui runs the grievance form as a prompt-driven terminal session and
// renders pages as styled plain text.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-grievance/pkg/companion"
	"github.com/goliatone/go-grievance/pkg/render"
	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/visibility"
)

// Name is the registry key for this renderer.
const Name = "tui"

var stripPolicy = bluemonday.StrictPolicy()

// Menu choices offered after each pass.
const (
	ChoiceGenerate = "Generate Submission Packet"
	ChoiceEdit     = "Edit answers"
	ChoiceQuit     = "Quit"
)

// Companion is the part of companion.Companion a terminal session drives.
type Companion interface {
	Interact(ctx context.Context, sess *session.Session, input render.Input) (companion.State, error)
	Generate(ctx context.Context, sess *session.Session) (companion.Generated, error)
}

// Renderer implements render.Renderer for terminals and drives interactive
// sessions through a PromptDriver.
type Renderer struct {
	driver    PromptDriver
	out       io.Writer
	evaluator visibility.Evaluator
	theme     Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, coloured theme).
func New(options ...Option) *Renderer {
	r := &Renderer{theme: DefaultTheme()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	r.evaluator = visibility.Or(r.evaluator)
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints page as text: headings, the current answers, warnings, then
// either the missing-field list or the success line, and the packet when set.
func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := r.theme

	var b strings.Builder
	if page.Title != "" {
		b.WriteString(t.Title.Render(page.Title))
		b.WriteString("\n")
	}
	if page.Subtitle != "" {
		b.WriteString(t.Subtitle.Render(page.Subtitle))
		b.WriteString("\n")
	}
	if len(page.View.Controls) > 0 {
		b.WriteString("\n")
		for _, ctrl := range page.View.Controls {
			b.WriteString(controlLine(t, ctrl))
			b.WriteString("\n")
		}
	}
	for _, warning := range page.View.Warnings {
		b.WriteString(t.Warning.Render(warning.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if page.Complete() {
		b.WriteString(t.Success.Render("All required fields collected. You can generate your packet."))
		b.WriteString("\n")
	} else {
		b.WriteString(t.Error.Render("Missing required fields:"))
		b.WriteString("\n")
		for _, label := range page.Missing {
			b.WriteString(t.Error.Render("  - " + label))
			b.WriteString("\n")
		}
	}

	if page.Packet != "" {
		b.WriteString("\n")
		b.WriteString(t.Label.Render("Submission Packet"))
		b.WriteString("\n")
		b.WriteString(t.Packet.Render(page.Packet))
		b.WriteString("\n")
	}
	if page.Notice != "" {
		b.WriteString(t.Notice.Render(page.Notice))
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func controlLine(t Theme, ctrl render.Control) string {
	label := t.Label.Render(ctrl.Label)
	if ctrl.Kind == render.ControlCheckbox {
		mark := "[ ]"
		if ctrl.Checked {
			mark = "[x]"
		}
		return mark + " " + label
	}
	value := strings.TrimSpace(ctrl.Value)
	if value == "" {
		value = "-"
	}
	return label + ": " + value
}

// Run drives sess until the user generates a packet or quits. Each pass
// prompts the visible fields, shows the validation result, and offers the
// next step. Generate is always offered; missing fields are reported but do
// not block the packet.
func (r *Renderer) Run(ctx context.Context, comp Companion, sess *session.Session) error {
	if comp == nil {
		return ErrNoCompanion
	}
	if sess == nil {
		sess = session.New()
	}

	state, err := comp.Interact(ctx, sess, nil)
	if err != nil {
		return err
	}
	if err := r.show(ctx, companion.Page(state, nil)); err != nil {
		return err
	}

	for {
		input, err := r.promptFields(ctx, state.Schema, sess.Answers)
		if err != nil {
			return err
		}
		state, err = comp.Interact(ctx, sess, input)
		if err != nil {
			return err
		}
		if err := r.show(ctx, companion.Page(state, nil)); err != nil {
			return err
		}

		choice, err := r.nextStep(ctx)
		if err != nil {
			return err
		}
		switch choice {
		case ChoiceGenerate:
			generated, err := comp.Generate(ctx, sess)
			if err != nil {
				return err
			}
			return r.show(ctx, companion.Page(state, &generated))
		case ChoiceQuit:
			return nil
		}
	}
}

func (r *Renderer) show(ctx context.Context, page render.Page) error {
	out, err := r.Render(ctx, page)
	if err != nil {
		return err
	}
	return r.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}

func (r *Renderer) nextStep(ctx context.Context) (string, error) {
	options := []string{ChoiceGenerate, ChoiceEdit, ChoiceQuit}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: "What next?",
		Options: options,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: invalid choice %d", idx)
	}
	return options[idx], nil
}

// promptFields asks for every visible field in schema order. Visibility is
// evaluated against a scratch copy that is updated as answers come in, so
// ticking a checkbox reveals its dependants in the same pass. The collected
// values are returned as input for render.Bind.
func (r *Renderer) promptFields(ctx context.Context, s schema.Schema, current session.Answers) (render.MapInput, error) {
	scratch := current.Clone()
	input := render.MapInput{}

	for _, field := range s.Fields {
		if !r.evaluator.ShouldShow(field, scratch) {
			continue
		}
		kind, ok := render.ControlFor(field)
		if !ok {
			if err := r.driver.Info(ctx, r.theme.Warning.Render(fmt.Sprintf("Unsupported field type: %s", field.Type))); err != nil {
				return nil, err
			}
			continue
		}

		switch kind {
		case render.ControlCheckbox:
			checked, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: promptLabel(field),
				Default: scratch.Bool(field.ID),
				Help:    plainHelp(field.Help),
			})
			if err != nil {
				return nil, err
			}
			scratch.Set(field.ID, checked)
			input[field.ID] = fmt.Sprintf("%t", checked)
		case render.ControlTextArea:
			value, err := r.driver.TextArea(ctx, TextAreaConfig{
				Message: promptLabel(field),
				Default: scratch.String(field.ID),
				Help:    plainHelp(field.Help),
			})
			if err != nil {
				return nil, err
			}
			scratch.Set(field.ID, value)
			input[field.ID] = value
		default:
			value, err := r.driver.Input(ctx, InputConfig{
				Message: promptLabel(field),
				Default: scratch.String(field.ID),
				Help:    plainHelp(field.Help),
			})
			if err != nil {
				return nil, err
			}
			scratch.Set(field.ID, value)
			input[field.ID] = value
		}
	}
	return input, nil
}

func promptLabel(field schema.Field) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

// plainHelp strips markup from help text; the terminal shows it verbatim.
func plainHelp(help string) string {
	if strings.TrimSpace(help) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(help)))
}

// IsAbort reports whether err came from the user interrupting a prompt.
func IsAbort(err error) bool {
	return errors.Is(err, ErrAborted)
}
