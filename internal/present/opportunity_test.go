package present

import (
	"strings"
	"testing"

	"github.com/eimlabs/bidpilot/internal/normalize"
)

func TestOpportunitySections(t *testing.T) {
	rec := normalize.Decode(map[string]any{
		"title":            "HVAC Maintenance Services",
		"agency":           "General Services Administration",
		"department":       "Public Buildings Service",
		"contract_type":    "Firm Fixed Price",
		"value":            "250000",
		"posted_date":      "2025-06-01",
		"responseDeadline": "2025-07-15",
		"naicsCode":        "238220",
		"description":      "Routine maintenance of HVAC systems.",
		"requirements":     []any{"Licensed technicians", "24-hour response"},
		"contact_info":     "facilities@gsa.gov",
		"link":             "https://sam.gov/opp/123",
	})

	out := Opportunity(rec)

	wantLines := []string{
		"**Title:** HVAC Maintenance Services",
		"**Agency:** General Services Administration",
		"**Department:** Public Buildings Service",
		"**Contract Type:** Firm Fixed Price",
		"**Contract Value:** $250,000",
		"**Posted Date:** June 1, 2025",
		"**Response Deadline:** July 15, 2025",
		"**NAICS Code:** 238220",
		"**Description:** Routine maintenance of HVAC systems.",
		"**Requirements:** Licensed technicians, 24-hour response",
		"**Contact Information:** facilities@gsa.gov",
		"**URL:** https://sam.gov/opp/123",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, out)
		}
	}

	// Section order must follow the canonical order.
	if strings.Index(out, "**Title:**") > strings.Index(out, "**Agency:**") {
		t.Error("Title section should come before Agency")
	}
	if strings.Index(out, "**Description:**") > strings.Index(out, "**Contact Information:**") {
		t.Error("Description section should come before Contact Information")
	}
}

func TestOpportunityOmitsPlaceholders(t *testing.T) {
	out := Opportunity(normalize.Decode(nil))

	if out != "**Description:** "+NoDescription {
		t.Errorf("empty record should render only the description sentinel, got:\n%s", out)
	}
}

func TestOpportunityPlaceholderValueOmitted(t *testing.T) {
	out := Opportunity(normalize.Decode(map[string]any{"title": "No Budget Posted"}))

	if strings.Contains(out, "Contract Value") {
		t.Errorf("placeholder contract value should be omitted, got:\n%s", out)
	}
	if !strings.Contains(out, "**Description:** "+NoDescription) {
		t.Errorf("description sentinel missing, got:\n%s", out)
	}
}

func TestOpportunityValueFormatting(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"250000", "**Contract Value:** $250,000"},
		{"5000.75", "**Contract Value:** $5,001"},
		{"$1.2M estimated", "**Contract Value:** $1.2M estimated"},
	}
	for _, tt := range tests {
		out := Opportunity(normalize.Decode(map[string]any{"value": tt.value}))
		if !strings.Contains(out, tt.want) {
			t.Errorf("value %q: missing %q in:\n%s", tt.value, tt.want, out)
		}
	}
}

func TestOpportunitySetAsideNoneOmitted(t *testing.T) {
	out := Opportunity(normalize.Decode(map[string]any{"setAside": "None"}))
	if strings.Contains(out, "**Set-Aside:**") {
		t.Errorf("Set-Aside None should be omitted, got:\n%s", out)
	}

	out = Opportunity(normalize.Decode(map[string]any{"setAside": "8(a) Small Business"}))
	if !strings.Contains(out, "**Set-Aside:** 8(a) Small Business") {
		t.Errorf("Set-Aside missing, got:\n%s", out)
	}
}

func TestOpportunityHTMLDescription(t *testing.T) {
	out := Opportunity(normalize.Decode(map[string]any{
		"description": "<p>Snow removal for <b>all</b> district facilities.</p>",
	}))
	if !strings.Contains(out, "**Description:** Snow removal for all district facilities.") {
		t.Errorf("HTML not flattened, got:\n%s", out)
	}
}

func TestRawDump(t *testing.T) {
	out := RawDump(`{"title": "A/B", "nested": {"k": "v"}}`)
	for _, ch := range []string{`"`, "{", "}", "[", "]", ","} {
		if strings.Contains(out, ch) {
			t.Errorf("structural char %q not stripped from:\n%s", ch, out)
		}
	}
	if !strings.Contains(out, "A → B") {
		t.Errorf("slash not converted to arrow in:\n%s", out)
	}
	if !strings.Contains(out, "title") || !strings.Contains(out, "nested") {
		t.Errorf("dump lost content:\n%s", out)
	}
}
