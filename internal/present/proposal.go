package present

import (
	"encoding/json"
	"strings"

	"github.com/eimlabs/bidpilot/internal/normalize"
)

// Proposal renders a proposal content payload as a titled, sectioned
// markdown document. The document may sit at the payload root or be
// nested under a `proposal` or `content` key; each section is emitted
// only when its source field is present. Content that never parses is
// returned as cleaned plain text.
func Proposal(content string) string {
	obj, _, ok := normalize.Candidate(content)
	if !ok {
		return CleanText(content)
	}

	doc := obj
	if p := asMap(obj["proposal"]); p != nil {
		doc = p
	} else if c := asMap(obj["content"]); c != nil {
		doc = c
	} else if _, hasTitle := obj["opportunity_title"]; !hasTitle {
		if _, hasSummary := obj["executive_summary"]; !hasSummary {
			// No recognizable document shape: fall back to a stripped
			// structural dump.
			b, err := json.MarshalIndent(obj, "", "  ")
			if err != nil {
				return CleanText(content)
			}
			return "# Raw Proposal Content\n\n" + StripStructural(string(b))
		}
	}

	var sections []string
	push := func(lines ...string) { sections = append(sections, lines...) }
	field := func(key string) string {
		if v, ok := doc[key]; ok {
			return CleanText(stringifyAny(v))
		}
		return ""
	}

	push("# Proposal Summary")
	if v := field("opportunity_title"); v != "" {
		push("**Opportunity Title:** " + v)
	}
	if v := field("solicitation_number"); v != "" {
		push("**Solicitation Number:** " + v)
	}
	if v := field("client"); v != "" {
		push("**Client:** " + v)
	}
	if v := field("company_name"); v != "" {
		push("**Company:** " + v)
	}
	if v := field("naics_code"); v != "" {
		push("**NAICS Code:** " + v)
	}
	if v := field("due_date"); v != "" {
		push("**Proposal Due Date:** " + formatDate(v))
	}
	push("", "---")

	prose := func(heading, key string) {
		if v := field(key); v != "" {
			push("", "## "+heading, v, "", "---")
		}
	}
	prose("Executive Summary", "executive_summary")
	prose("Technical Approach", "technical_approach")
	prose("Past Performance", "past_performance")

	if pricing := asMap(doc["pricing"]); pricing != nil {
		push("", "## Pricing Strategy")
		if v, ok := pricing["pricing_methodology"]; ok {
			push("- **Methodology:** " + CleanText(stringifyAny(v)))
		}
		if v, ok := pricing["total_price"]; ok {
			push("- **Total Price:** " + CleanText(stringifyAny(v)))
		}
		if v, ok := pricing["discounts"]; ok {
			push("- **Discounts:** " + CleanText(stringifyAny(v)))
		}
		push("", "---")
	}

	if compliance := asMap(doc["compliance"]); compliance != nil {
		push("", "## Compliance and Certifications")
		if v, ok := compliance["sam_registration"]; ok {
			push("- **SAM Registration:** " + CleanText(stringifyAny(v)))
		}
		if certs := asList(compliance["certifications"]); len(certs) > 0 {
			push("- **Certifications:** " + strings.Join(certs, ", "))
		}
		if v, ok := compliance["naics_alignment"]; ok {
			push("- **NAICS Alignment:** " + CleanText(stringifyAny(v)))
		}
		if regs := asList(compliance["regulations_adherence"]); len(regs) > 0 {
			push("- **Regulatory Adherence:**")
			for _, reg := range regs {
				push("  - " + reg)
			}
		}
		if v, ok := compliance["quality_assurance"]; ok {
			push("- **Quality Assurance:** " + CleanText(stringifyAny(v)))
		}
		push("", "---")
	}

	if attachments := asList(doc["attachments"]); len(attachments) > 0 {
		push("", "## Attachments")
		for _, a := range attachments {
			push("- " + a)
		}
		push("", "---")
	}

	if notes := asList(doc["notes"]); len(notes) > 0 {
		push("", "## Notes")
		for _, n := range notes {
			push("- " + n)
		}
		push("", "---")
	}

	if contact := asMap(doc["contact_information"]); contact != nil {
		push("", "## Contact Information")
		if v, ok := contact["company"]; ok {
			push("- **Company:** " + CleanText(stringifyAny(v)))
		}
		if v, ok := contact["point_of_contact"]; ok {
			push("- **Point of Contact:** " + CleanText(stringifyAny(v)))
		}
		if v, ok := contact["email"]; ok {
			push("- **Email:** " + CleanText(stringifyAny(v)))
		}
		if v, ok := contact["address"]; ok {
			push("- **Address:** " + CleanText(stringifyAny(v)))
		}
	}

	return strings.TrimSpace(strings.Join(sections, "\n"))
}

// DisplayTitle resolves the title shown for a proposal row: the
// opportunity title embedded in the content when available, otherwise
// the stored row title.
func DisplayTitle(content, fallback string) string {
	if obj, _, ok := normalize.Candidate(content); ok {
		doc := obj
		if p := asMap(obj["proposal"]); p != nil {
			doc = p
		}
		if v, ok := doc["opportunity_title"]; ok {
			if s := strings.TrimSpace(stringifyAny(v)); s != "" {
				return s
			}
		}
	}
	return fallback
}

// asList cleans each element of a list-valued field, dropping empties.
func asList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s := CleanText(stringifyAny(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
