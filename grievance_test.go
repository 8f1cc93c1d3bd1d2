package grievance_test

import (
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"

	grievance "github.com/goliatone/go-grievance"
	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/testsupport"
)

func TestLoadSchemaAndBuildPacket(t *testing.T) {
	src := schema.SourceFromFile(testsupport.SchemaPath(testsupport.DefaultSchemaName))
	s, err := grievance.LoadSchema(testsupport.Context(), src)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	got := grievance.BuildPacket(s, testsupport.FullAnswers())
	golden := testsupport.GoldenPath("packet_full.txt")
	if testsupport.WriteMaybeGolden(t, golden, []byte(got)) {
		return
	}
	want := string(testsupport.MustReadGolden(t, golden))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("packet mismatch (-want +got):\n%s", diff)
	}
}

func TestMissing(t *testing.T) {
	got := grievance.Missing(testsupport.PolicySchema(), grievance.Answers{"has_policy": true})
	want := []string{"Policy Number", "Complaint Details"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(grievance.EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("page template missing: %v", err)
	}
}
