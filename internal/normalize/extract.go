package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolve probes the ordered alias list for a canonical field and returns
// the first present value, stringified. Probing is read-only; alias order
// is the tie-break when several keys are set. Empty strings and nils are
// treated as absent; a meaningful zero (the number 0) is present.
func Resolve(obj map[string]any, field string) string {
	v, ok := resolveAny(obj, field)
	if !ok {
		return ""
	}
	return stringify(v)
}

// ResolveAny is Resolve without stringification, for callers that need
// the raw value (lists, nested objects).
func ResolveAny(obj map[string]any, field string) (any, bool) {
	return resolveAny(obj, field)
}

func resolveAny(obj map[string]any, field string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	for _, key := range Aliases(field) {
		v, ok := obj[key]
		if !ok {
			continue
		}
		if present(v) {
			return v, true
		}
	}
	return nil, false
}

// present implements the absence rule: nil and empty/whitespace strings
// fall through to the next alias, everything else counts.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

// Stringify renders a decoded JSON scalar the way field resolution
// does: numbers without a trailing ".0", strings trimmed.
func Stringify(v any) string {
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ResolveContact probes the point-of-contact aliases. A string value
// passes through; an object composes "Name: x, Email: y, Phone: z" from
// whichever parts exist. Returns "" when no contact is usable.
func ResolveContact(obj map[string]any) string {
	if obj == nil {
		return ""
	}
	var contact any
	for _, key := range aliases.Contact.Keys {
		v, ok := obj[key]
		if ok && present(v) {
			contact = v
			break
		}
	}
	switch t := contact.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		var parts []string
		for _, nameKey := range aliases.Contact.Name {
			if v, ok := t[nameKey]; ok && present(v) {
				parts = append(parts, "Name: "+stringify(v))
				break
			}
		}
		if v, ok := t["email"]; ok && present(v) {
			parts = append(parts, "Email: "+stringify(v))
		}
		if v, ok := t["phone"]; ok && present(v) {
			parts = append(parts, "Phone: "+stringify(v))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// subMap returns a nested object under any of the given keys.
func subMap(obj map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if m, ok := v.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}
