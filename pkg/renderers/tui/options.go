package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-grievance/pkg/visibility"
)

// Theme holds the lipgloss styles applied to printed output.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Packet   lipgloss.Style
	Notice   lipgloss.Style
}

// DefaultTheme is the coloured terminal theme.
func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Subtitle: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Label:    lipgloss.NewStyle().Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Packet: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1),
		Notice: lipgloss.NewStyle().Faint(true),
	}
}

// PlainTheme applies no styling at all.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:    plain,
		Subtitle: plain,
		Label:    plain,
		Warning:  plain,
		Error:    plain,
		Success:  plain,
		Packet:   plain,
		Notice:   plain,
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the survey driver prints informational messages.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithEvaluator overrides the show_if evaluator used while prompting.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(r *Renderer) {
		r.evaluator = eval
	}
}

// WithTheme applies terminal styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
