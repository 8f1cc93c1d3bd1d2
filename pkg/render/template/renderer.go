package template

// TemplateRenderer is the engine contract renderers rely on. Templates are
// resolved by name from the engine's template set; data is exposed to the
// template as top-level variables on top of the global context.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
	GlobalContext(data map[string]any) error
}
