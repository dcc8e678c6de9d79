package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/eimlabs/bidpilot/internal/metrics"
)

// Decode turns an arbitrary upstream payload into a canonical Record. It
// is a total function: no input shape makes it return an error or panic.
// Decoding tiers are tried in order and the first success wins; total
// failure yields an error record carrying whatever the regex recovery
// tier could salvage.
func Decode(raw any) Record {
	rec := decode(raw, time.Now())
	metrics.DecodeOutcomes.WithLabelValues(rec.Tier.String()).Inc()
	return rec
}

func decode(raw any, now time.Time) Record {
	obj, tier, ok := candidate(raw)
	if ok {
		return project(obj, tier, now)
	}

	if tier == TierEmpty {
		rec := emptyRecord(now)
		rec.Tier = TierEmpty
		return rec
	}

	// Last resort: regex field recovery over the raw text.
	rec := emptyRecord(now)
	rec.Title = ErrorTitle
	rec.Tier = TierFailed
	if s, isStr := rawString(raw); isStr {
		if fields := recoverFields(s); len(fields) > 0 {
			rec.Tier = TierRecovered
			applyRecovered(&rec, fields)
		}
	}
	return rec
}

// Candidate exposes the object-producing tiers without canonical
// projection, for callers that work on non-opportunity payloads (proposal
// documents, analysis blocks). ok is false when no tier produced an
// object; tier then tells whether the input was empty or unparseable.
func Candidate(raw any) (map[string]any, Tier, bool) {
	return candidate(raw)
}

func candidate(raw any) (map[string]any, Tier, bool) {
	switch t := raw.(type) {
	case nil:
		return nil, TierEmpty, false
	case map[string]any:
		return t, TierObject, true
	case string:
		return candidateFromString(t)
	case []byte:
		return candidateFromString(string(t))
	case json.RawMessage:
		return candidateFromString(string(t))
	default:
		// Typed structs and maps: round-trip through JSON. Anything that
		// does not serialize to an object is treated like null.
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, TierEmpty, false
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, TierEmpty, false
		}
		return m, TierObject, true
	}
}

func candidateFromString(s string) (map[string]any, Tier, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, TierEmpty, false
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		switch t := v.(type) {
		case map[string]any:
			return t, TierStrict, true
		case string:
			// Double-encoded: the payload is a JSON string whose value is
			// itself JSON. Run the inner string through every tier.
			if m, tier, ok := candidateFromString(t); ok {
				if tier == TierStrict {
					tier = TierDouble
				}
				return m, tier, true
			}
			return nil, TierFailed, false
		default:
			// Scalars and arrays parse but carry no fields.
			return nil, TierFailed, false
		}
	}

	var repaired any
	if err := json.Unmarshal([]byte(repairText(trimmed)), &repaired); err == nil {
		if m, ok := repaired.(map[string]any); ok {
			return m, TierRepaired, true
		}
	}

	if m, ok := parseBackslashFormat(trimmed); ok {
		return m, TierBackslash, true
	}

	return nil, TierFailed, false
}

func rawString(raw any) (string, bool) {
	switch t := raw.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case json.RawMessage:
		return string(t), true
	default:
		return "", false
	}
}

// project reads each canonical field off the candidate object through its
// alias list, leaving the placeholder when nothing resolves.
func project(obj map[string]any, tier Tier, now time.Time) Record {
	rec := emptyRecord(now)
	rec.Fields = obj
	rec.Tier = tier

	set := func(dst *string, field string) {
		if v := Resolve(obj, field); v != "" {
			*dst = v
		}
	}
	set(&rec.Title, "title")
	set(&rec.Description, "description")
	set(&rec.Agency, "agency")
	set(&rec.SubAgency, "subAgency")
	set(&rec.PostedDate, "posted")
	set(&rec.ResponseDeadline, "deadline")
	set(&rec.NAICSCode, "naics")
	set(&rec.Location, "location")
	set(&rec.Status, "status")
	set(&rec.EstimatedValue, "value")
	set(&rec.FormattedValue, "formattedValue")
	set(&rec.Link, "link")
	set(&rec.Type, "type")
	set(&rec.Source, "source")

	if rd := subMap(obj, "rawData", "raw_data"); rd != nil {
		setNested(&rec.RawData.Source, rd, "source")
		setNested(&rec.RawData.OriginalID, rd, "originalId", "original_id")
		setNested(&rec.RawData.LastProcessed, rd, "lastProcessed", "last_processed")
	}
	if md := subMap(obj, "metadata", "_metadata"); md != nil {
		setNested(&rec.Metadata.ProcessedAt, md, "processedAt", "processed_at")
		setNested(&rec.Metadata.WorkflowID, md, "workflowId", "workflow_id")
		setNested(&rec.Metadata.ExecutionID, md, "executionId", "execution_id")
	}

	return rec
}

func setNested(dst *string, m map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := m[key]; ok && present(v) {
			*dst = stringify(v)
			return
		}
	}
}

func applyRecovered(rec *Record, fields map[string]string) {
	assign := func(dst *string, field string) {
		if v, ok := fields[field]; ok {
			*dst = v
		}
	}
	assign(&rec.Title, "title")
	assign(&rec.Description, "description")
	assign(&rec.Agency, "agency")
	assign(&rec.SubAgency, "subAgency")
	assign(&rec.PostedDate, "posted")
	assign(&rec.ResponseDeadline, "deadline")
	assign(&rec.NAICSCode, "naics")
	assign(&rec.Location, "location")
	assign(&rec.Status, "status")
	assign(&rec.EstimatedValue, "value")
	assign(&rec.FormattedValue, "formattedValue")
	assign(&rec.Link, "link")
	assign(&rec.Type, "type")
	assign(&rec.Source, "source")
}
