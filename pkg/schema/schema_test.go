package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-grievance/pkg/schema"
)

const jsonDoc = `{
  "portal_id": "irdai_bima_bharosa",
  "portal_name": "IRDAI Bima Bharosa",
  "official_form_url": "https://bimabharosa.irdai.gov.in",
  "fields": [
    {"id": "has_policy", "label": "Do you hold a policy?", "type": "bool"},
    {"id": "policy_number", "label": "Policy Number", "type": "text", "required": true,
     "show_if": {"field": "has_policy", "equals": true}},
    {"id": "rating", "label": "Rating", "type": "stars"}
  ],
  "attachments": {"allowed_types": ["pdf", "jpg"], "max_size_mb": 10}
}`

const yamlDoc = `
portal_id: irdai_bima_bharosa
portal_name: IRDAI Bima Bharosa
official_form_url: https://bimabharosa.irdai.gov.in
fields:
  - id: has_policy
    label: Do you hold a policy?
    type: bool
  - id: policy_number
    label: Policy Number
    type: text
    required: true
    show_if:
      field: has_policy
      equals: true
  - id: rating
    label: Rating
    type: stars
attachments:
  allowed_types: [pdf, jpg]
  max_size_mb: 10
`

func TestParse_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := schema.Parse(schema.MustNewDocument(schema.SourceFromFile("schema.json"), []byte(jsonDoc)))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	fromYAML, err := schema.Parse(schema.MustNewDocument(schema.SourceFromFile("schema.yaml"), []byte(yamlDoc)))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromYAML, cmp.Comparer(func(a, b schema.Size) bool {
		return a.String() == b.String()
	})); diff != "" {
		t.Fatalf("json/yaml mismatch (-json +yaml):\n%s", diff)
	}

	if fromJSON.Fields[1].ShowIf == nil || fromJSON.Fields[1].ShowIf.Equals != true {
		t.Fatalf("expected show_if equals true, got %#v", fromJSON.Fields[1].ShowIf)
	}
	if fromJSON.Fields[2].Type.Supported() {
		t.Fatalf("expected stars to be unsupported")
	}
	if got := fromJSON.Attachments.MaxSizeMB.String(); got != "10" {
		t.Fatalf("max size = %q, want 10", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := schema.Parse(schema.MustNewDocument(schema.SourceFromFile("schema.json"), []byte(`{"fields": [`)))
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewDocument_Empty(t *testing.T) {
	if _, err := schema.NewDocument(schema.SourceFromFile("schema.json"), []byte("  ")); !errors.Is(err, schema.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := schema.NewDocument(nil, []byte("{}")); !errors.Is(err, schema.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
}

func TestSize_String(t *testing.T) {
	cases := map[string]string{
		"10":      "10",
		"10.0":    "10.0",
		"2.5":     "2.5",
		"1e1":     "10.0",
		"0.00001": "1e-05",
	}
	for literal, want := range cases {
		size, err := schema.NewSize(literal)
		if err != nil {
			t.Fatalf("NewSize(%q): %v", literal, err)
		}
		if got := size.String(); got != want {
			t.Errorf("Size(%q).String() = %q, want %q", literal, got, want)
		}
	}
	if got := (schema.Size{}).String(); got != "None" {
		t.Errorf("zero size = %q, want None", got)
	}
}

func TestSchema_Validate(t *testing.T) {
	s := schema.Schema{
		PortalID: "demo",
		Fields: []schema.Field{
			{ID: "a", Label: "A", Type: schema.FieldTypeBool, ShowIf: &schema.Rule{Field: "b", Equals: true}},
			{ID: "b", Label: "B", Type: schema.FieldTypeText},
			{ID: "b", Label: "", Type: "date"},
			{ID: "c", Label: "C", Type: schema.FieldTypeText, ShowIf: &schema.Rule{Field: "zzz", Equals: "x"}},
		},
	}

	err := s.Validate()
	var schemaErr *schema.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}

	want := []schema.Issue{
		{FieldID: "b", Message: "duplicate field id"},
		{FieldID: "b", Message: "label is required"},
		{FieldID: "b", Message: "unsupported field type date"},
		{FieldID: "a", Message: "show_if must reference an earlier field"},
		{FieldID: "c", Message: "show_if references unknown field zzz"},
	}
	if diff := cmp.Diff(want, schemaErr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ValidateClean(t *testing.T) {
	s := schema.MustParse(schema.MustNewDocument(schema.SourceFromFile("schema.json"), []byte(jsonDoc)))
	s.Fields = s.Fields[:2]
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid schema, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	if src := schema.ParseSource("https://example.test/s.json"); src == nil || src.Kind() != schema.SourceKindURL {
		t.Fatalf("expected url source, got %#v", src)
	}
	if src := schema.ParseSource("schemas/a.json"); src == nil || src.Kind() != schema.SourceKindFile {
		t.Fatalf("expected file source, got %#v", src)
	}
	if src := schema.ParseSource("  "); src != nil {
		t.Fatalf("expected nil for blank input")
	}
}
