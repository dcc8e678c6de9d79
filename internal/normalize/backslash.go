package normalize

import "strings"

// Legacy compatibility shim. Early upstream workflows emitted opportunity
// data as backslash-delimited pairs: fields separated by `\\`, key and
// value separated by `\:\`, with stray backslashes sprinkled throughout.
// It is unconfirmed whether any live source still produces this, so the
// shim is best effort: pairs that do not split cleanly are skipped.
func parseBackslashFormat(s string) (map[string]any, bool) {
	if !strings.Contains(s, `\:\`) {
		return nil, false
	}
	out := make(map[string]any)
	for _, pair := range strings.Split(s, `\\`) {
		idx := strings.Index(pair, `\:\`)
		if idx < 0 {
			continue
		}
		key := strings.ReplaceAll(pair[:idx], `\`, "")
		val := strings.ReplaceAll(pair[idx+3:], `\`, "")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key != "" && val != "" {
			out[key] = val
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
