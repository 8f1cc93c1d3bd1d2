package companion_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-grievance/pkg/companion"
	"github.com/goliatone/go-grievance/pkg/persist"
	"github.com/goliatone/go-grievance/pkg/render"
	"github.com/goliatone/go-grievance/pkg/renderers/web"
	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/testsupport"
	"github.com/goliatone/go-grievance/pkg/validation"
)

type failingLoader struct{ err error }

func (l failingLoader) Load(context.Context, schema.Source) (schema.Document, error) {
	return schema.Document{}, l.err
}

func newCompanion(t *testing.T, options ...companion.Option) (*companion.Companion, string) {
	t.Helper()
	root := t.TempDir()
	sink := persist.NewSink(
		persist.WithOutputDir(filepath.Join(root, "outputs")),
		persist.WithLogDir(filepath.Join(root, "logs")),
		persist.WithClock(testsupport.FixedClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))),
	)
	base := []companion.Option{
		companion.WithSource(schema.SourceFromFile(testsupport.SchemaPath(testsupport.DefaultSchemaName))),
		companion.WithSink(sink),
	}
	return companion.New(append(base, options...)...), root
}

func TestInteract_InitialRender(t *testing.T) {
	c, _ := newCompanion(t)
	sess := session.New()

	state, err := c.Interact(context.Background(), sess, nil)
	if err != nil {
		t.Fatalf("interact: %v", err)
	}

	if state.Schema.PortalID != "irdai_bima_bharosa" {
		t.Fatalf("portal id = %q", state.Schema.PortalID)
	}
	var ids []string
	for _, ctrl := range state.View.Controls {
		ids = append(ids, ctrl.ID)
	}
	wantIDs := []string{
		"complainant_name", "mobile_number", "email", "insurer_name", "has_policy",
		"complained_to_insurer", "complaint_type", "complaint_details",
	}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
	if len(sess.Answers) != 0 {
		t.Fatalf("render without input must not touch answers: %v", sess.Answers)
	}
}

func TestInteract_BindRevealsAndValidates(t *testing.T) {
	c, _ := newCompanion(t)
	sess := session.New()

	state, err := c.Interact(context.Background(), sess, render.MapInput{
		"complainant_name": "Asha",
		"has_policy":       "true",
	})
	if err != nil {
		t.Fatalf("interact: %v", err)
	}

	if got := sess.Answers["has_policy"]; got != true {
		t.Fatalf("has_policy = %v", got)
	}
	if got, ok := sess.Answers["policy_number"]; !ok || got != "" {
		t.Fatalf("policy_number should be revealed and stored empty, got %v (%v)", got, ok)
	}
	for _, label := range state.Missing {
		if label == "Complainant Name" {
			t.Fatalf("filled field reported missing: %v", state.Missing)
		}
	}
	if !contains(state.Missing, "Policy Number") {
		t.Fatalf("expected revealed policy number to be required: %v", state.Missing)
	}
}

func TestInteract_StrictBooleans(t *testing.T) {
	c, _ := newCompanion(t, companion.WithValidationOptions(
		validation.WithBooleanPolicy(validation.BooleanPolicyRequireTrue),
	))

	state, err := c.Interact(context.Background(), session.New(), render.MapInput{})
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if !contains(state.Missing, "I have already complained to the insurer") {
		t.Fatalf("expected unchecked required checkbox in %v", state.Missing)
	}
}

func TestInteract_SchemaFailure(t *testing.T) {
	boom := errors.New("boom")
	c, _ := newCompanion(t, companion.WithLoader(failingLoader{err: boom}))

	sess := session.New()
	_, err := c.Interact(context.Background(), sess, render.MapInput{"email": "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if len(sess.Answers) != 0 {
		t.Fatalf("answers must stay untouched on load failure: %v", sess.Answers)
	}
}

func TestInteract_NilSession(t *testing.T) {
	c, _ := newCompanion(t)
	if _, err := c.Interact(context.Background(), nil, nil); !errors.Is(err, companion.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestGenerate_WritesPacketAndLog(t *testing.T) {
	c, root := newCompanion(t)
	sess := session.New()
	sess.Answers = testsupport.FullAnswers()

	generated, err := c.Generate(context.Background(), sess)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	golden := testsupport.MustReadGolden(t, testsupport.GoldenPath("packet_full.txt"))
	if diff := cmp.Diff(string(golden), generated.Packet); diff != "" {
		t.Fatalf("packet mismatch (-want +got):\n%s", diff)
	}

	wantPacket := filepath.Join(root, "outputs", "packet_20260102_030405.txt")
	if generated.Result.PacketPath != wantPacket {
		t.Fatalf("packet path = %q", generated.Result.PacketPath)
	}
	data, err := os.ReadFile(generated.Result.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"schema": "irdai_bima_bharosa"`) {
		t.Fatalf("log missing portal id:\n%s", data)
	}
}

func TestGenerate_WriteFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	c, _ := newCompanion(t, companion.WithSink(persist.NewSink(
		persist.WithOutputDir(filepath.Join(blocker, "outputs")),
	)))

	generated, err := c.Generate(context.Background(), session.New())
	if err == nil {
		t.Fatalf("expected write error")
	}
	if generated.Packet == "" {
		t.Fatalf("packet should still be returned on write failure")
	}
}

func TestPage(t *testing.T) {
	state := companion.State{Missing: []string{"Email"}}

	page := companion.Page(state, nil)
	if page.Title != companion.Title || page.Subtitle != companion.Subtitle {
		t.Fatalf("unexpected headings: %+v", page)
	}
	if page.Complete() || page.Packet != "" || page.Notice != "" {
		t.Fatalf("unexpected page: %+v", page)
	}

	page = companion.Page(companion.State{}, &companion.Generated{
		Packet: "P",
		Result: persist.Result{
			PacketPath: filepath.Join("outputs", "packet_20260101_000000.txt"),
			LogPath:    filepath.Join("logs", "session_20260101_000000.json"),
		},
	})
	if page.Packet != "P" {
		t.Fatalf("unexpected generated page: %+v", page)
	}
	if want := "Saved packet to outputs/ and session log to logs/ on your computer."; page.Notice != want {
		t.Fatalf("notice = %q, want %q", page.Notice, want)
	}
}

func TestSavedNotice_UsesConfiguredDirectories(t *testing.T) {
	got := companion.SavedNotice(persist.Result{
		PacketPath: "/srv/grievance/packets/packet_20260101_000000.txt",
		LogPath:    "/var/log/grievance/session_20260101_000000.json",
	})
	want := "Saved packet to /srv/grievance/packets/ and session log to /var/log/grievance/ on your computer."
	if got != want {
		t.Fatalf("SavedNotice = %q, want %q", got, want)
	}
	if got := companion.SavedNotice(persist.Result{}); got != "" {
		t.Fatalf("expected empty notice without saved files, got %q", got)
	}
}

func TestRenderer_Negotiation(t *testing.T) {
	c, _ := newCompanion(t)

	html, err := c.Renderer("text/html,application/xhtml+xml")
	if err != nil || html.Name() != "web" {
		t.Fatalf("expected web renderer, got %v (%v)", html, err)
	}
	js, err := c.Renderer("application/json")
	if err != nil || js.Name() != "json" {
		t.Fatalf("expected json renderer, got %v (%v)", js, err)
	}
	fallback, err := c.Renderer("*/*")
	if err != nil || fallback.Name() != "web" {
		t.Fatalf("expected fallback web renderer, got %v (%v)", fallback, err)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestWithWebOptions_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "templates", "page.tmpl")
	if err := os.MkdirAll(filepath.Dir(page), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(page, []byte(`<h1>{{ title }}</h1>{% for c in controls %}{{ c|safe }}{% endfor %}`), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	c, _ := newCompanion(t, companion.WithWebOptions(web.WithTemplatesDir(dir)))
	state, err := c.Interact(context.Background(), session.New(), nil)
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	renderer, err := c.Renderer("text/html")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), companion.Page(state, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.HasPrefix(html, "<h1>"+companion.Title+"</h1>") {
		t.Fatalf("expected local page template:\n%s", html)
	}
	if !strings.Contains(html, `class="grievance-field`) {
		t.Fatalf("expected bundled partials to fill in:\n%s", html)
	}
}
