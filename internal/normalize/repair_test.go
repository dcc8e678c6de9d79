package normalize

import (
	"encoding/json"
	"testing"
)

func TestRepairText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "trailing comma in object",
			in:   `{"title": "A",}`,
			want: map[string]any{"title": "A"},
		},
		{
			name: "trailing comma in array",
			in:   `{"tags": ["a", "b",]}`,
			want: map[string]any{"tags": []any{"a", "b"}},
		},
		{
			name: "bare keys",
			in:   `{title: "A", agency: "B"}`,
			want: map[string]any{"title": "A", "agency": "B"},
		},
		{
			name: "single-quoted values",
			in:   `{"title": 'Quoted Wrong', "agency": 'Also Wrong'}`,
			want: map[string]any{"title": "Quoted Wrong", "agency": "Also Wrong"},
		},
		{
			name: "control characters stripped",
			in:   "{\"title\": \"Line\x01Noise\"}",
			want: map[string]any{"title": "LineNoise"},
		},
		{
			name: "everything at once",
			in:   `{title: 'Widget Support', value: 5000,}`,
			want: map[string]any{"title": "Widget Support", "value": 5000.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			if err := json.Unmarshal([]byte(repairText(tt.in)), &got); err != nil {
				t.Fatalf("repaired text still unparseable: %v\nrepaired: %s", err, repairText(tt.in))
			}
			for k, want := range tt.want {
				gotV := got[k]
				switch w := want.(type) {
				case []any:
					g, ok := gotV.([]any)
					if !ok || len(g) != len(w) {
						t.Errorf("key %s = %v, want %v", k, gotV, want)
					}
				default:
					if gotV != want {
						t.Errorf("key %s = %v, want %v", k, gotV, want)
					}
				}
			}
		})
	}
}

func TestParseBackslashFormat(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOK bool
		want   map[string]any
	}{
		{
			name:   "basic pairs",
			in:     `title\:\Road Repair\\agency\:\Public Works`,
			wantOK: true,
			want:   map[string]any{"title": "Road Repair", "agency": "Public Works"},
		},
		{
			name:   "malformed pair skipped",
			in:     `title\:\Paving\\orphan fragment`,
			wantOK: true,
			want:   map[string]any{"title": "Paving"},
		},
		{
			name:   "no separator",
			in:     "plain text",
			wantOK: false,
		},
		{
			name:   "separator but nothing usable",
			in:     `\:\`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBackslashFormat(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
