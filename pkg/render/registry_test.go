package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-grievance/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.Page) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "web", contentType: "text/html; charset=utf-8"})
	reg.MustRegister(stubRenderer{name: "json", contentType: "application/json"})

	if err := reg.Register(stubRenderer{name: "web"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if diff := cmp.Diff([]string{"json", "web"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := reg.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}

	cases := map[string]string{
		"application/json":                 "json",
		"text/html,application/xhtml+xml":  "web",
		"*/*":                              "web",
		"":                                 "web",
		"image/png, application/json;q=.5": "json",
	}
	for accept, want := range cases {
		got, err := reg.ForAccept(accept, "web")
		if err != nil {
			t.Fatalf("ForAccept(%q): %v", accept, err)
		}
		if got.Name() != want {
			t.Errorf("ForAccept(%q) = %s, want %s", accept, got.Name(), want)
		}
	}
}

func TestRegistry_ForAcceptMatchesWholeMediaType(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "web", contentType: "text/html; charset=utf-8"})
	reg.MustRegister(stubRenderer{name: "tui", contentType: "text/plain; charset=utf-8"})
	reg.MustRegister(stubRenderer{name: "json", contentType: "application/json"})

	cases := map[string]string{
		"text":                    "json",
		"text/h":                  "json",
		"application/json-seq":    "json",
		"Text/Plain":              "tui",
		"text/html; charset=utf8": "web",
		"application":             "json",
	}
	for accept, want := range cases {
		got, err := reg.ForAccept(accept, "json")
		if err != nil {
			t.Fatalf("ForAccept(%q): %v", accept, err)
		}
		if got.Name() != want {
			t.Errorf("ForAccept(%q) = %s, want %s", accept, got.Name(), want)
		}
	}
}
