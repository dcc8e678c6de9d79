package present

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	reSlashes   = regexp.MustCompile(`/+`)
	reNumeric   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// CleanText scrubs upstream text for inclusion in a section: literal
// escaped newlines become spaces, stray backslashes are dropped, repeated
// slashes collapse, and whitespace is normalized.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, `\`, "")
	s = reSlashes.ReplaceAllString(s, " ")
	return normalizeSpace(s)
}

// normalizeSpace collapses runs of whitespace and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// flattenHTML turns an HTML fragment into plain text. Non-HTML input
// passes through with whitespace normalized.
func flattenHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return normalizeSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return normalizeSpace(s)
	}
	return normalizeSpace(doc.Text())
}

// sanitizeValue strips any markup fragments out of a field value before
// it is embedded in presented text.
func sanitizeValue(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return normalizeSpace(s)
	}
	return normalizeSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// dateLayouts are tried in order when reformatting an upstream date
// string for display.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// formatDate renders a date string as a long calendar date. Unparseable
// input is returned untouched rather than dropped.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return s
}

// formatValue renders plain numeric contract values as zero-decimal
// currency; anything already formatted passes through as-is.
func formatValue(s string) string {
	s = strings.TrimSpace(s)
	if !reNumeric.MatchString(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return "$" + groupDigits(int64(f+0.5))
}

func groupDigits(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func stringifyAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// StripStructural removes raw JSON punctuation from a structural dump so
// it can be embedded as display text: slashes become arrows; quotes,
// commas, braces, and brackets are dropped.
func StripStructural(s string) string {
	s = strings.ReplaceAll(s, "/", " → ")
	for _, ch := range []string{`"`, ",", "{", "}", "[", "]"} {
		s = strings.ReplaceAll(s, ch, "")
	}
	return strings.TrimSpace(s)
}
