package grievance

import (
	internalloader "github.com/goliatone/go-grievance/internal/schema/loader"
	"github.com/goliatone/go-grievance/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalloader.New(cfg)
}
