package web_test

import (
	"io/fs"

	"github.com/goliatone/go-grievance/pkg/renderers/web"
)

func fsReadFile(name string) ([]byte, error) {
	return fs.ReadFile(web.TemplatesFS(), name)
}
