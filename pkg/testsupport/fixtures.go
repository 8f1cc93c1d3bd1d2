// Package testsupport carries fixture and golden helpers shared by package
// tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
)

// DefaultSchemaName is the bundled grievance schema under schemas/.
const DefaultSchemaName = "irdai_bima_bharosa.json"

// RepoRoot returns the absolute module root.
func RepoRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

// SchemaPath returns the path of a schema bundled under schemas/.
func SchemaPath(name string) string {
	return filepath.Join(RepoRoot(), "schemas", name)
}

// GoldenPath returns the path of a golden file under testdata/golden.
func GoldenPath(name string) string {
	return filepath.Join(RepoRoot(), "testdata", "golden", name)
}

// LoadSchema reads and parses a schema file, failing the test on error.
func LoadSchema(t *testing.T, path string) schema.Schema {
	t.Helper()

	s, err := LoadSchemaFromPath(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return s
}

// LoadSchemaFromPath returns a parsed Schema without requiring testing.T.
func LoadSchemaFromPath(path string) (schema.Schema, error) {
	if path == "" {
		return schema.Schema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return schema.Parse(doc)
}

// PolicySchema is the two-field has_policy/policy_number form used by
// visibility scenarios.
func PolicySchema() schema.Schema {
	size, _ := schema.NewSize("10")
	return schema.Schema{
		PortalID:        "demo_portal",
		PortalName:      "Demo Portal",
		OfficialFormURL: "https://portal.example.test/form",
		Fields: []schema.Field{
			{ID: "has_policy", Label: "Has Policy", Type: schema.FieldTypeBool},
			{
				ID:       "policy_number",
				Label:    "Policy Number",
				Type:     schema.FieldTypeText,
				Required: true,
				ShowIf:   &schema.Rule{Field: "has_policy", Equals: true},
			},
			{ID: "complaint_details", Label: "Complaint Details", Type: schema.FieldTypeText, Required: true},
		},
		Attachments: schema.Attachments{
			AllowedTypes: []string{"pdf", "png"},
			MaxSizeMB:    size,
		},
	}
}

// FullAnswers fills the bundled schema, including a stale value for a hidden
// field.
func FullAnswers() session.Answers {
	return session.Answers{
		"complainant_name":      "Asha Rao",
		"mobile_number":         "XXXXXX1234",
		"email":                 "",
		"insurer_name":          "Acme Life",
		"has_policy":            true,
		"policy_number":         "XXXX5678",
		"complained_to_insurer": false,
		"insurer_complaint_ref": "OLD-1",
		"complaint_type":        "Claim rejected",
		"complaint_details":     "  Claim rejected without reason.  ",
	}
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
