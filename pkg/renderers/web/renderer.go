// Package web renders the grievance form page as server-side HTML using the
// embedded pongo2 template bundle.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-grievance/pkg/render"
	rendertemplate "github.com/goliatone/go-grievance/pkg/render/template"
	"github.com/goliatone/go-grievance/pkg/render/template/pongo"
)

// Name is the registry key for this renderer.
const Name = "web"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	helpPolicy       *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the template bundle. Files
// found there win; anything missing falls back to the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme swaps the theme tokens, partials, and asset resolver.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		if cfg != nil {
			c.theme = cfg
		}
	}
}

// WithHelpPolicy overrides the sanitizer applied to field help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.helpPolicy = policy
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	theme      resolvedTheme
	helpPolicy *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the web renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		if cfg.templateFS == nil && cfg.templateDir == "" {
			return nil, errors.New("web renderer: templates fs is nil")
		}
		engine, err := pongo.New(pongo.WithBaseDir(cfg.templateDir), pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("web renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	policy := cfg.helpPolicy
	if policy == nil {
		policy = HelpPolicy()
	}

	resolved := resolveTheme(cfg.theme)
	r := &Renderer{
		templates:  templates,
		theme:      resolved,
		helpPolicy: policy,
	}
	inlineCSS := ""
	if resolved.stylesheet == "" {
		inlineCSS = defaultStylesheet()
	}

	// Theme values are fixed for the renderer's lifetime.
	err := templates.GlobalContext(map[string]any{
		"theme": map[string]any{
			"name":     resolved.name,
			"variant":  resolved.variant,
			"css_vars": resolved.cssVars,
		},
		"stylesheet": resolved.stylesheet,
		"inline_css": inlineCSS,
	})
	if err != nil {
		return nil, fmt.Errorf("web renderer: apply theme: %w", err)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws page. Each control is rendered through its partial first and
// the results are stitched into the page template.
func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("web renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	controls := make([]string, 0, len(page.View.Controls))
	for _, ctrl := range page.View.Controls {
		html, err := r.renderControl(ctrl)
		if err != nil {
			return nil, err
		}
		controls = append(controls, html)
	}

	warnings := make([]string, 0, len(page.View.Warnings))
	for _, warning := range page.View.Warnings {
		warnings = append(warnings, warning.Message)
	}

	data := map[string]any{
		"title":           page.Title,
		"subtitle":        page.Subtitle,
		"controls":        controls,
		"warnings":        warnings,
		"missing":         page.Missing,
		"complete":        page.Complete(),
		"packet":          page.Packet,
		"notice":          page.Notice,
		"action":          defaultString(page.Action, "/"),
		"generate_action": defaultString(page.GenerateAction, "/generate"),
	}

	out, err := r.templates.RenderTemplate(r.theme.partials[PartialPage], data)
	if err != nil {
		return nil, fmt.Errorf("web renderer: render page: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) renderControl(ctrl render.Control) (string, error) {
	var key string
	switch ctrl.Kind {
	case render.ControlCheckbox:
		key = PartialCheckbox
	case render.ControlTextArea:
		key = PartialTextArea
	default:
		key = PartialInput
	}

	data := map[string]any{
		"id":       ctrl.ID,
		"name":     ctrl.ID,
		"label":    ctrl.Label,
		"help":     sanitizeHelp(r.helpPolicy, ctrl.Help),
		"required": ctrl.Required,
		"checked":  ctrl.Checked,
		"value":    ctrl.Value,
	}
	out, err := r.templates.RenderTemplate(r.theme.partials[key], data)
	if err != nil {
		return "", fmt.Errorf("web renderer: render control %q: %w", ctrl.ID, err)
	}
	return out, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
