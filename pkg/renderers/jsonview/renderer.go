// Package jsonview renders the form page as JSON for API clients that send
// Accept: application/json.
package jsonview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-grievance/pkg/render"
)

// Name is the registry key for this renderer.
const Name = "json"

// Renderer encodes render.Page values.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

// WithIndent pretty-prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type payload struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle,omitempty"`
	Controls []render.Control `json:"controls"`
	Warnings []render.Warning `json:"warnings,omitempty"`
	Missing  []string         `json:"missing"`
	Complete bool             `json:"complete"`
	Packet   string           `json:"packet,omitempty"`
	Notice   string           `json:"notice,omitempty"`
}

func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := payload{
		Title:    page.Title,
		Subtitle: page.Subtitle,
		Controls: page.View.Controls,
		Warnings: page.View.Warnings,
		Missing:  page.Missing,
		Complete: page.Complete(),
		Packet:   page.Packet,
		Notice:   page.Notice,
	}
	if body.Controls == nil {
		body.Controls = []render.Control{}
	}
	if body.Missing == nil {
		body.Missing = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("jsonview: encode page: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
