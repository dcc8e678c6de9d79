// Package present turns canonical records and upstream documents into
// ordered, display-safe text blocks. All transforms are pure: the same
// input always yields the same output, and nothing here touches I/O.
package present

import (
	"encoding/json"
	"strings"

	"github.com/eimlabs/bidpilot/internal/normalize"
)

// NoDescription is the sentinel shown when a record has no resolvable
// description. Unlike every other section, the description is never
// omitted outright.
const NoDescription = "No description available"

// NoDetails is returned when nothing at all could be presented.
const NoDetails = "No detailed information available"

// Opportunity renders a canonical record as an ordered list of labeled
// sections. Sections whose source field resolved to a placeholder are
// omitted entirely; only the description falls back to a sentinel.
func Opportunity(rec normalize.Record) string {
	obj := rec.Fields
	var sections []string
	add := func(label, val string) {
		if val != "" {
			sections = append(sections, "**"+label+":** "+sanitizeValue(val))
		}
	}

	if rec.Title != normalize.PlaceholderText {
		add("Title", rec.Title)
	}
	if rec.Agency != normalize.PlaceholderText {
		add("Agency", rec.Agency)
	}
	add("Department", normalize.Resolve(obj, "department"))
	add("Contract Type", normalize.Resolve(obj, "contract_type"))
	add("Solicitation Number", normalize.Resolve(obj, "solicitation_number"))
	add("Notice ID", normalize.Resolve(obj, "notice_id"))

	if rec.EstimatedValue != normalize.PlaceholderValue {
		add("Contract Value", formatValue(rec.EstimatedValue))
	}
	if rec.PostedDate != normalize.PlaceholderText {
		add("Posted Date", formatDate(rec.PostedDate))
	}
	if rec.ResponseDeadline != normalize.PlaceholderText {
		add("Response Deadline", formatDate(rec.ResponseDeadline))
	}
	if rec.Location != normalize.PlaceholderText {
		add("Location/Place of Performance", rec.Location)
	}

	if setAside := normalize.Resolve(obj, "setAside"); setAside != "" && setAside != "None" {
		add("Set-Aside", setAside)
	}
	add("Set-Aside Type", normalize.Resolve(obj, "set_aside_type"))
	if rec.NAICSCode != normalize.PlaceholderText {
		add("NAICS Code", rec.NAICSCode)
	}
	add("PSC Code", normalize.Resolve(obj, "psc_code"))

	if rec.Description != normalize.PlaceholderText {
		add("Description", CleanText(flattenHTML(rec.Description)))
	} else {
		sections = append(sections, "**Description:** "+NoDescription)
	}

	add("Requirements", resolveJoined(obj, "requirements"))
	add("Contact Information", normalize.ResolveContact(obj))
	add("Additional Information", normalize.Resolve(obj, "additional_info"))
	if rec.Source != normalize.PlaceholderUnknown {
		add("Source", rec.Source)
	}
	if rec.Link != normalize.PlaceholderText {
		add("URL", rec.Link)
	}

	if len(sections) == 0 {
		return NoDetails
	}
	return strings.Join(sections, "\n\n")
}

// resolveJoined resolves a field that may be a scalar or a list, joining
// list elements with a comma.
func resolveJoined(obj map[string]any, field string) string {
	v, ok := normalize.ResolveAny(obj, field)
	if !ok {
		return ""
	}
	if list, isList := v.([]any); isList {
		var parts []string
		for _, item := range list {
			if s := strings.TrimSpace(stringifyAny(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return normalize.Resolve(obj, field)
}

// RawDump pretty-prints a payload for the collapsible raw-data view with
// all JSON structural punctuation stripped.
func RawDump(raw any) string {
	if obj, _, ok := normalize.Candidate(raw); ok {
		if b, err := json.MarshalIndent(obj, "", "  "); err == nil {
			return StripStructural(string(b))
		}
	}
	if s, isStr := raw.(string); isStr {
		return StripStructural(s)
	}
	if b, err := json.MarshalIndent(raw, "", "  "); err == nil {
		return StripStructural(string(b))
	}
	return ""
}
