package packet_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-grievance/pkg/packet"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/testsupport"
)

func TestBuild_Golden(t *testing.T) {
	s := testsupport.LoadSchema(t, testsupport.SchemaPath(testsupport.DefaultSchemaName))
	got := packet.Build(s, testsupport.FullAnswers())

	goldenPath := testsupport.GoldenPath("packet_full.txt")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(got)) {
		return
	}
	want := string(testsupport.MustReadGolden(t, goldenPath))
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("packet mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_IsPure(t *testing.T) {
	s := testsupport.LoadSchema(t, testsupport.SchemaPath(testsupport.DefaultSchemaName))
	answers := testsupport.FullAnswers()
	before := answers.Clone()

	first := packet.Build(s, answers)
	second := packet.Build(s, answers)
	if first != second {
		t.Fatalf("packet output differs between calls")
	}
	if testsupport.CompareGolden(before, answers) != "" {
		t.Fatalf("Build mutated the answers")
	}
}

func TestBuild_TrimsComplaintDetails(t *testing.T) {
	out := packet.Build(testsupport.PolicySchema(), session.Answers{"complaint_details": "  Hello  "})
	lines := strings.Split(out, "\n")

	idx := indexOf(lines, "=== Copy/Paste Complaint Details ===")
	if idx < 0 || lines[idx+1] != "Hello" {
		t.Fatalf("expected trimmed details after header, got %q", lines)
	}
}

func TestBuild_HiddenFieldsExcluded(t *testing.T) {
	s := testsupport.PolicySchema()

	hidden := packet.Build(s, session.Answers{"has_policy": false, "policy_number": "STALE-1"})
	if strings.Contains(hidden, "Policy Number") || strings.Contains(hidden, "STALE-1") {
		t.Fatalf("hidden field leaked into packet:\n%s", hidden)
	}

	shown := packet.Build(s, session.Answers{"has_policy": true, "policy_number": "STALE-1"})
	if !strings.Contains(shown, "- Policy Number: STALE-1") {
		t.Fatalf("expected re-shown field to use its retained value:\n%s", shown)
	}
}

func TestBuild_EmptyAnswers(t *testing.T) {
	out := packet.Build(testsupport.PolicySchema(), session.Answers{})
	want := strings.Join([]string{
		"Portal: Demo Portal",
		"Official form URL: https://portal.example.test/form",
		"",
		"=== Copy/Paste Complaint Details ===",
		"",
		"",
		"=== Key Details (for form filling) ===",
		"- Has Policy: None",
		"- Complaint Details: None",
		"",
		"=== Attachments Guidance ===",
		"- Allowed: pdf, png",
		"- Max file size: 10 MB",
		"",
		"=== Notes ===",
		packet.Notes[0],
		packet.Notes[1],
	}, "\n")
	if diff := testsupport.CompareGolden(want, out); diff != "" {
		t.Fatalf("packet mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SkipsUnsupportedTypes(t *testing.T) {
	s := testsupport.PolicySchema()
	s.Fields = append(s.Fields, s.Fields[0])
	s.Fields[len(s.Fields)-1].ID = "rating"
	s.Fields[len(s.Fields)-1].Label = "Rating"
	s.Fields[len(s.Fields)-1].Type = "stars"

	out := packet.Build(s, session.Answers{"rating": "5"})
	if strings.Contains(out, "Rating") {
		t.Fatalf("unsupported field should not be listed:\n%s", out)
	}
}

func indexOf(lines []string, target string) int {
	for i, line := range lines {
		if line == target {
			return i
		}
	}
	return -1
}
