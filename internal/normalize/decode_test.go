package normalize

import (
	"encoding/json"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func TestDecodeTiers(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		wantTier Tier
		wantTitle string
	}{
		{
			name:      "object passes through",
			raw:       map[string]any{"title": "IT Support Services"},
			wantTier:  TierObject,
			wantTitle: "IT Support Services",
		},
		{
			name:      "strict JSON string",
			raw:       `{"title": "Janitorial Services", "agency": "GSA"}`,
			wantTier:  TierStrict,
			wantTitle: "Janitorial Services",
		},
		{
			name:      "double-encoded JSON",
			raw:       `"{\"title\": \"Cloud Migration\"}"`,
			wantTier:  TierDouble,
			wantTitle: "Cloud Migration",
		},
		{
			name:      "malformed JSON repaired",
			raw:       `{title: 'Widget Support', value: 5000,}`,
			wantTier:  TierRepaired,
			wantTitle: "Widget Support",
		},
		{
			name:      "legacy backslash format",
			raw:       `title\:\Road Repair\\agency\:\Public Works`,
			wantTier:  TierBackslash,
			wantTitle: "Road Repair",
		},
		{
			name:      "regex recovery from free text",
			raw:       "not json at all, title: Bridge Inspection Services",
			wantTier:  TierRecovered,
			wantTitle: "Bridge Inspection Services",
		},
		{
			name:      "nil input",
			raw:       nil,
			wantTier:  TierEmpty,
			wantTitle: PlaceholderText,
		},
		{
			name:      "unusable text",
			raw:       "@@@@",
			wantTier:  TierFailed,
			wantTitle: ErrorTitle,
		},
		{
			name:      "scalar JSON",
			raw:       "42",
			wantTier:  TierFailed,
			wantTitle: ErrorTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := decode(tt.raw, testNow)
			if rec.Tier != tt.wantTier {
				t.Errorf("tier = %s, want %s", rec.Tier, tt.wantTier)
			}
			if rec.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", rec.Title, tt.wantTitle)
			}
		})
	}
}

// Every canonical field must be non-empty no matter what comes in.
func TestDecodeNoEmptyFields(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"garbage",
		"[1, 2, 3]",
		`{"title": "Only A Title"}`,
		`{title: broken`,
		map[string]any{},
		42.0,
	}

	for _, raw := range inputs {
		rec := decode(raw, testNow)
		fields := map[string]string{
			"title":            rec.Title,
			"description":      rec.Description,
			"agency":           rec.Agency,
			"subAgency":        rec.SubAgency,
			"postedDate":       rec.PostedDate,
			"responseDeadline": rec.ResponseDeadline,
			"naicsCode":        rec.NAICSCode,
			"location":         rec.Location,
			"status":           rec.Status,
			"estimatedValue":   rec.EstimatedValue,
			"formattedValue":   rec.FormattedValue,
			"link":             rec.Link,
			"type":             rec.Type,
			"source":           rec.Source,
		}
		for name, v := range fields {
			if v == "" {
				t.Errorf("input %v: field %s is empty", raw, name)
			}
		}
		if rec.RawData.Source == "" || rec.RawData.OriginalID == "" || rec.RawData.LastProcessed == "" {
			t.Errorf("input %v: rawData has empty fields", raw)
		}
		if rec.Metadata.ProcessedAt == "" {
			t.Errorf("input %v: metadata.processedAt is empty", raw)
		}
	}
}

// Decoding its own serialized output must not change a record.
func TestDecodeIdempotent(t *testing.T) {
	inputs := []any{
		`{"title": "HVAC Maintenance", "agency": "DOE", "naicsCode": "238220", "estimatedValue": "250000"}`,
		`{title: 'Widget Support', value: 5000,}`,
		nil,
		"garbage with title: Recovered Title",
	}

	for _, raw := range inputs {
		first := decode(raw, testNow)
		b, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		second := decode(string(b), testNow)

		if second.Title != first.Title || second.Agency != first.Agency ||
			second.NAICSCode != first.NAICSCode || second.EstimatedValue != first.EstimatedValue ||
			second.ResponseDeadline != first.ResponseDeadline || second.Source != first.Source {
			t.Errorf("re-decode changed record:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	}
}

func TestDecodeNumericValues(t *testing.T) {
	rec := decode(`{"title": "Paving", "value": 5000}`, testNow)
	if rec.EstimatedValue != "5000" {
		t.Errorf("value = %q, want %q", rec.EstimatedValue, "5000")
	}
	rec = decode(`{"title": "Paving", "value": 5000.5}`, testNow)
	if rec.EstimatedValue != "5000.5" {
		t.Errorf("value = %q, want %q", rec.EstimatedValue, "5000.5")
	}
}

func TestDecodeNestedBlocks(t *testing.T) {
	rec := decode(`{
		"title": "Fleet Maintenance",
		"rawData": {"source": "sam.gov", "originalId": "abc-123", "lastProcessed": "2025-01-02T00:00:00Z"},
		"metadata": {"workflowId": "wf-9", "executionId": "ex-4"}
	}`, testNow)

	if rec.RawData.Source != "sam.gov" || rec.RawData.OriginalID != "abc-123" {
		t.Errorf("rawData = %+v", rec.RawData)
	}
	if rec.Metadata.WorkflowID != "wf-9" || rec.Metadata.ExecutionID != "ex-4" {
		t.Errorf("metadata = %+v", rec.Metadata)
	}
	// Absent nested fields keep their placeholders.
	if rec.Metadata.ProcessedAt != testNow.UTC().Format(time.RFC3339) {
		t.Errorf("processedAt = %q", rec.Metadata.ProcessedAt)
	}
}

func TestDecodeDoubleEncodedRepair(t *testing.T) {
	// A JSON string whose content needs the repair tier.
	rec := decode(`"{title: 'Nested Broken', value: 10,}"`, testNow)
	if rec.Tier != TierRepaired {
		t.Errorf("tier = %s, want %s", rec.Tier, TierRepaired)
	}
	if rec.Title != "Nested Broken" {
		t.Errorf("title = %q", rec.Title)
	}
}

func TestDecodeRecoveredPartial(t *testing.T) {
	// Recovery salvages agency but no title: the error sentinel stays.
	rec := decode(`broken text agency: 'Department of Transportation' and more`, testNow)
	if rec.Tier != TierRecovered {
		t.Fatalf("tier = %s, want %s", rec.Tier, TierRecovered)
	}
	if rec.Agency != "Department of Transportation" {
		t.Errorf("agency = %q", rec.Agency)
	}
	if !rec.IsError() {
		t.Errorf("expected error sentinel title, got %q", rec.Title)
	}
}

func TestRecordPredicates(t *testing.T) {
	if !decode(`{"title": "Real"}`, testNow).HasTitle() {
		t.Error("HasTitle() = false for a real title")
	}
	if decode(nil, testNow).HasTitle() {
		t.Error("HasTitle() = true for placeholder title")
	}
	if !decode("@@@@", testNow).IsError() {
		t.Error("IsError() = false for failed decode")
	}
	if decode(nil, testNow).IsError() {
		t.Error("IsError() = true for empty input")
	}
}
