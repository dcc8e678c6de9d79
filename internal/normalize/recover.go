package normalize

import (
	"regexp"
	"strings"
)

// Regex field recovery, the tier of last resort. For every canonical
// field each alias contributes three patterns, tried in order: a
// JSON-style quoted pair, a single-quoted pair, and a bare `key: value`
// pair terminated at a comma, closing brace, or newline. The first match
// across the alias list wins.
var recoveredFields = []string{
	"title", "description", "agency", "subAgency", "posted", "deadline",
	"naics", "location", "status", "value", "formattedValue", "link",
	"type", "source",
}

type recoveryEntry struct {
	field    string
	patterns []*regexp.Regexp
}

var recoveryTable []recoveryEntry

func init() {
	for _, field := range recoveredFields {
		entry := recoveryEntry{field: field}
		for _, alias := range Aliases(field) {
			quoted := regexp.QuoteMeta(alias)
			entry.patterns = append(entry.patterns,
				regexp.MustCompile(`"`+quoted+`"\s*:\s*"([^"]*)"`),
				regexp.MustCompile(`\b`+quoted+`\s*:\s*'([^']*)'`),
				regexp.MustCompile(`\b`+quoted+`\s*:\s*([^,}\n]+)`),
			)
		}
		recoveryTable = append(recoveryTable, entry)
	}
}

func recoverFields(s string) map[string]string {
	out := make(map[string]string)
	for _, entry := range recoveryTable {
		for _, re := range entry.patterns {
			m := re.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			val := strings.Trim(strings.TrimSpace(m[1]), `"'`)
			if val != "" {
				out[entry.field] = val
			}
			break
		}
	}
	return out
}
