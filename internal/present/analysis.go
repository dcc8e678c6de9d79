package present

import (
	"encoding/json"
	"strings"

	"github.com/eimlabs/bidpilot/internal/normalize"
)

// Analysis renders an AI or compliance analysis payload. Recognized keys
// become labeled or bulleted blocks; plain text passes through; an
// object with no recognized keys falls back to a stripped structural
// dump. Empty input yields an empty string so callers can omit the block.
func Analysis(raw any) string {
	if raw == nil {
		return ""
	}
	obj, tier, ok := normalize.Candidate(raw)
	if !ok {
		if s, isStr := raw.(string); isStr && tier != normalize.TierEmpty {
			return s
		}
		return ""
	}

	var sections []string

	if score := firstScalar(obj, "overall_score", "compliance_score", "score"); score != "" {
		sections = append(sections, "**Overall Compliance Score:** "+score+"%")
	}
	if v, ok := obj["summary"]; ok {
		if s := CleanText(stringifyAny(v)); s != "" {
			sections = append(sections, "**Summary:** "+s)
		}
	}

	bulleted := func(label, key string) {
		if items := asList(obj[key]); len(items) > 0 {
			sections = append(sections, "**"+label+":**\n• "+strings.Join(items, "\n• "))
		}
	}
	bulleted("Key Requirements", "key_requirements")
	bulleted("Why This Matches", "match_reasons")
	bulleted("Strengths", "strengths")
	bulleted("Areas for Improvement", "weaknesses")
	bulleted("Missing Requirements", "missing_requirements")

	if v, ok := obj["recommendations"]; ok {
		if items := asList(v); len(items) > 0 {
			sections = append(sections, "**Recommendations:**\n• "+strings.Join(items, "\n• "))
		} else if s := CleanText(stringifyAny(v)); s != "" {
			sections = append(sections, "**Recommendations:** "+s)
		}
	}
	if v, ok := obj["conclusion"]; ok {
		if s := CleanText(stringifyAny(v)); s != "" {
			sections = append(sections, "**Conclusion:** "+s)
		}
	}

	if len(sections) > 0 {
		return strings.Join(sections, "\n\n")
	}

	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return ""
	}
	return StripStructural(string(b))
}

func firstScalar(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s := strings.TrimSpace(stringifyAny(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
