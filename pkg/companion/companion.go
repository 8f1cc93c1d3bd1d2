package companion

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	internalloader "github.com/goliatone/go-grievance/internal/schema/loader"
	"github.com/goliatone/go-grievance/pkg/packet"
	"github.com/goliatone/go-grievance/pkg/persist"
	"github.com/goliatone/go-grievance/pkg/render"
	"github.com/goliatone/go-grievance/pkg/renderers/jsonview"
	"github.com/goliatone/go-grievance/pkg/renderers/web"
	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/validation"
	"github.com/goliatone/go-grievance/pkg/visibility"
)

const (
	// DefaultSchemaPath is the bundled schema loaded when no source is set.
	DefaultSchemaPath = "schemas/irdai_bima_bharosa.json"

	defaultRendererName = web.Name

	Title    = "BFSI Grievance Filing Companion (MVP)"
	Subtitle = "Step 1: Fill required information"
)

// Option customises the companion configuration.
type Option func(*Companion)

// WithLoader injects a custom schema loader.
func WithLoader(loader schema.Loader) Option {
	return func(c *Companion) {
		c.loader = loader
	}
}

// WithSource selects the schema document to load.
func WithSource(src schema.Source) Option {
	return func(c *Companion) {
		c.source = src
	}
}

// WithEvaluator overrides the show_if evaluator used by every step.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(c *Companion) {
		c.evaluator = eval
	}
}

// WithSink sets where generated packets are persisted.
func WithSink(sink *persist.Sink) Option {
	return func(c *Companion) {
		c.sink = sink
	}
}

// WithValidationOptions forwards options to validation.Validate.
func WithValidationOptions(options ...validation.Option) Option {
	return func(c *Companion) {
		c.validation = append(c.validation, options...)
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(c *Companion) {
		c.registry = registry
	}
}

// WithWebOptions configures the web renderer of the default registry. It has
// no effect when WithRegistry supplies a registry.
func WithWebOptions(options ...web.Option) Option {
	return func(c *Companion) {
		c.webOptions = append(c.webOptions, options...)
	}
}

// WithDefaultRenderer overrides the renderer used when content negotiation
// finds no match.
func WithDefaultRenderer(name string) Option {
	return func(c *Companion) {
		if name != "" {
			c.defaultRenderer = name
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Companion) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Companion drives one schema through the form lifecycle. It holds no answer
// state of its own; every call works on the session it is handed.
type Companion struct {
	loader          schema.Loader
	source          schema.Source
	evaluator       visibility.Evaluator
	sink            *persist.Sink
	validation      []validation.Option
	registry        *render.Registry
	webOptions      []web.Option
	defaultRenderer string
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs a Companion. Missing dependencies fall back to the file
// loader, the bundled schema path, the default evaluator, a sink writing to
// outputs/ and logs/, and a registry holding the web and JSON renderers.
func New(options ...Option) *Companion {
	c := &Companion{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	return c
}

func (c *Companion) applyDefaults() {
	if c.loader == nil {
		c.loader = internalloader.New(schema.NewLoaderOptions())
	}
	if c.source == nil {
		c.source = schema.SourceFromFile(DefaultSchemaPath)
	}
	c.evaluator = visibility.Or(c.evaluator)
	if c.sink == nil {
		c.sink = persist.NewSink(persist.WithLogger(c.logger))
	}
	if c.registry == nil {
		c.registry = render.NewRegistry()
		renderer, err := web.New(c.webOptions...)
		if err != nil {
			c.initialiseErr = fmt.Errorf("companion: configure web renderer: %w", err)
			return
		}
		c.registry.MustRegister(renderer)
		c.registry.MustRegister(jsonview.New())
	}
}

// Registry exposes the renderer registry.
func (c *Companion) Registry() *render.Registry {
	return c.registry
}

// Renderer negotiates a renderer for an Accept header value.
func (c *Companion) Renderer(accept string) (render.Renderer, error) {
	if c.initialiseErr != nil {
		return nil, c.initialiseErr
	}
	renderer, err := c.registry.ForAccept(accept, c.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("companion: resolve renderer: %w", err)
	}
	return renderer, nil
}

// Load reads and parses the schema. It runs on every interaction so edits to
// the schema file show up on the next request.
func (c *Companion) Load(ctx context.Context) (schema.Schema, error) {
	if c.source == nil {
		return schema.Schema{}, ErrNoSource
	}
	s, err := schema.LoadSchema(ctx, c.loader, c.source)
	if err != nil {
		c.logger.Error("schema load failed", zap.String("source", c.source.Location()), zap.Error(err))
		return schema.Schema{}, fmt.Errorf("companion: load schema: %w", err)
	}
	return s, nil
}

// State is the outcome of one interaction.
type State struct {
	Schema  schema.Schema
	View    render.View
	Missing []string
}

// Interact loads the schema, binds input into the session (when input is not
// nil), builds the controls for the visible fields, and validates them.
func (c *Companion) Interact(ctx context.Context, sess *session.Session, input render.Input) (State, error) {
	if sess == nil {
		return State{}, ErrNoSession
	}
	s, err := c.Load(ctx)
	if err != nil {
		return State{}, err
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.Answers == nil {
		sess.Answers = session.Answers{}
	}

	if input != nil {
		for _, warning := range render.Bind(s, sess.Answers, input, c.evaluator) {
			c.logger.Warn("unsupported field type", zap.String("field", warning.FieldID), zap.String("type", string(warning.Type)))
		}
	}

	state := State{
		Schema:  s,
		View:    render.Controls(s, sess.Answers, c.evaluator),
		Missing: c.validate(s, sess.Answers),
	}
	c.logger.Debug("interaction",
		zap.String("session", sess.ID),
		zap.Int("controls", len(state.View.Controls)),
		zap.Strings("missing", state.Missing),
	)
	return state, nil
}

func (c *Companion) validate(s schema.Schema, answers session.Answers) []string {
	opts := make([]validation.Option, 0, len(c.validation)+1)
	opts = append(opts, validation.WithEvaluator(c.evaluator))
	opts = append(opts, c.validation...)
	return validation.Validate(s, answers, opts...)
}

// Generated is a built packet and where it was saved.
type Generated struct {
	Packet string
	Result persist.Result
}

// Generate loads the schema, builds the packet from the session answers, and
// persists it. The packet is built even when required fields are missing;
// gating is the caller's concern.
func (c *Companion) Generate(ctx context.Context, sess *session.Session) (Generated, error) {
	if sess == nil {
		return Generated{}, ErrNoSession
	}
	s, err := c.Load(ctx)
	if err != nil {
		return Generated{}, err
	}

	sess.Lock()
	defer sess.Unlock()

	text := packet.BuildWith(s, sess.Answers, c.evaluator)
	result, err := c.sink.Save(ctx, s.PortalID, text, sess.Answers)
	if err != nil {
		return Generated{Packet: text}, fmt.Errorf("companion: save packet: %w", err)
	}
	return Generated{Packet: text, Result: result}, nil
}

// Page assembles the render.Page for a state and an optional generated packet.
func Page(state State, generated *Generated) render.Page {
	page := render.Page{
		Title:          Title,
		Subtitle:       Subtitle,
		View:           state.View,
		Missing:        state.Missing,
		Action:         "/",
		GenerateAction: "/generate",
	}
	if generated != nil {
		page.Packet = generated.Packet
		page.Notice = SavedNotice(generated.Result)
	}
	return page
}

// SavedNotice tells the user which directories received the packet and the
// session log. It is empty when nothing was written.
func SavedNotice(result persist.Result) string {
	if result.PacketPath == "" || result.LogPath == "" {
		return ""
	}
	return fmt.Sprintf("Saved packet to %s and session log to %s on your computer.",
		dirOf(result.PacketPath), dirOf(result.LogPath))
}

func dirOf(path string) string {
	return filepath.Dir(path) + "/"
}
