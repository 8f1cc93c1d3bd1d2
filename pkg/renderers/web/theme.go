package web

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial keys looked up in theme.RendererConfig.Partials.
const (
	PartialPage     = "forms.page"
	PartialCheckbox = "forms.checkbox"
	PartialInput    = "forms.input"
	PartialTextArea = "forms.textarea"

	// AssetStylesheet is the theme asset key for an external stylesheet. When
	// the theme does not resolve it, the embedded stylesheet is inlined.
	AssetStylesheet = "web.stylesheet"
)

func defaultPartials() map[string]string {
	return map[string]string{
		PartialPage:     "templates/page.tmpl",
		PartialCheckbox: "templates/components/checkbox.tmpl",
		PartialInput:    "templates/components/input.tmpl",
		PartialTextArea: "templates/components/textarea.tmpl",
	}
}

// DefaultTheme returns the built-in light theme tokens.
func DefaultTheme() *theme.RendererConfig {
	tokens := map[string]string{
		"brand":      "#1f4e79",
		"surface":    "#ffffff",
		"text":       "#1b1b1b",
		"error":      "#b42318",
		"success":    "#067647",
		"warning":    "#b54708",
		"radius":     "6px",
		"font-stack": "system-ui, -apple-system, Segoe UI, sans-serif",
	}
	return &theme.RendererConfig{
		Theme:   "grievance",
		Variant: "light",
		Tokens:  tokens,
		CSSVars: cssVarsFromTokens(tokens),
	}
}

// resolvedTheme is the template-facing projection of a theme config.
type resolvedTheme struct {
	name       string
	variant    string
	partials   map[string]string
	cssVars    string
	stylesheet string
}

func resolveTheme(cfg *theme.RendererConfig) resolvedTheme {
	if cfg == nil {
		cfg = DefaultTheme()
	}
	out := resolvedTheme{
		name:     cfg.Theme,
		variant:  cfg.Variant,
		partials: defaultPartials(),
	}
	for key, value := range cfg.Partials {
		if strings.TrimSpace(value) != "" {
			out.partials[key] = value
		}
	}

	vars := cfg.CSSVars
	if len(vars) == 0 {
		vars = cssVarsFromTokens(cfg.Tokens)
	}
	out.cssVars = cssVarsStyle(vars)

	if cfg.AssetURL != nil {
		out.stylesheet = strings.TrimSpace(cfg.AssetURL(AssetStylesheet))
	}
	return out
}

func cssVarsFromTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out["--"+strings.TrimPrefix(key, "--")] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
