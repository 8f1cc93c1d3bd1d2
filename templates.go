package grievance

import (
	"io/fs"

	"github.com/goliatone/go-grievance/pkg/renderers/web"
)

// EmbeddedTemplates exposes the built-in web renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}
