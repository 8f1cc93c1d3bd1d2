package main

import (
	"time"

	internalloader "github.com/goliatone/go-grievance/internal/schema/loader"
	"github.com/goliatone/go-grievance/pkg/schema"
)

// newLoader allows file and URL schemas; remote fetches are capped at ten
// seconds.
func newLoader() schema.Loader {
	return internalloader.New(schema.NewLoaderOptions(
		schema.WithHTTPFallback(10 * time.Second),
	))
}
