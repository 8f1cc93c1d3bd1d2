package render

import "context"

// Page is everything a renderer needs to draw the single form page.
type Page struct {
	Title    string
	Subtitle string
	View     View
	// Missing lists the labels of visible required fields that are empty.
	Missing []string
	// Packet is set after the user asked for the submission packet.
	Packet string
	// Notice is an informational message, such as where files were saved.
	Notice string
	// Action and GenerateAction are the form targets for re-validation and
	// packet generation.
	Action         string
	GenerateAction string
}

// Complete reports whether every visible required field has a value.
func (p Page) Complete() bool {
	return len(p.Missing) == 0
}

// Renderer converts a Page into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page) ([]byte, error)
}
