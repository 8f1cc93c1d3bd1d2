// Package packet renders collected answers into the plain-text submission
// packet a user copies into the official portal.
package packet

import (
	"strings"

	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/visibility"
)

// DetailsFieldID is the field whose text is copied verbatim into the packet.
const DetailsFieldID = "complaint_details"

const (
	headerDetails     = "=== Copy/Paste Complaint Details ==="
	headerKeyDetails  = "=== Key Details (for form filling) ==="
	headerAttachments = "=== Attachments Guidance ==="
	headerNotes       = "=== Notes ==="
)

// Notes is the fixed disclaimer block closing every packet.
var Notes = []string{
	"- This tool prepares a submission-ready packet; it does not submit on your behalf (OTP/portal checks).",
	"- For demos, mask sensitive numbers (use last 4 digits).",
}

// Build renders the packet for s and answers. It is a pure function of its
// inputs: the same pair always yields byte-identical text.
func Build(s schema.Schema, answers session.Answers) string {
	return BuildWith(s, answers, visibility.Default())
}

// BuildWith is Build with a caller supplied visibility evaluator.
func BuildWith(s schema.Schema, answers session.Answers, eval visibility.Evaluator) string {
	eval = visibility.Or(eval)

	lines := []string{
		"Portal: " + s.PortalName,
		"Official form URL: " + s.OfficialFormURL,
		"",
		headerDetails,
		complaintDetails(answers),
		"",
		headerKeyDetails,
	}

	for _, field := range s.Fields {
		if !field.Type.Supported() || !eval.ShouldShow(field, answers) {
			continue
		}
		value, _ := answers.Get(field.ID)
		lines = append(lines, "- "+field.Label+": "+session.Stringify(value))
	}

	lines = append(lines,
		"",
		headerAttachments,
		"- Allowed: "+strings.Join(s.Attachments.AllowedTypes, ", "),
		"- Max file size: "+s.Attachments.MaxSizeMB.String()+" MB",
		"",
		headerNotes,
	)
	lines = append(lines, Notes...)

	return strings.Join(lines, "\n")
}

// complaintDetails returns the trimmed details text; falsy values collapse to "".
func complaintDetails(answers session.Answers) string {
	value, ok := answers.Get(DetailsFieldID)
	if !ok || !session.Truthy(value) {
		return ""
	}
	return strings.TrimSpace(session.Stringify(value))
}
