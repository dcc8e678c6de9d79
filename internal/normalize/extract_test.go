package normalize

import "testing"

func TestResolveAliasOrder(t *testing.T) {
	tests := []struct {
		name  string
		obj   map[string]any
		field string
		want  string
	}{
		{
			name:  "first alias wins over later ones",
			obj:   map[string]any{"naics": "541511", "naicsCode": "238220"},
			field: "naics",
			want:  "541511",
		},
		{
			name:  "empty string falls through to next alias",
			obj:   map[string]any{"naics": "", "naics_code": "236220"},
			field: "naics",
			want:  "236220",
		},
		{
			name:  "whitespace-only falls through",
			obj:   map[string]any{"title": "   ", "opportunity_title": "Snow Removal"},
			field: "title",
			want:  "Snow Removal",
		},
		{
			name:  "nil falls through",
			obj:   map[string]any{"deadline": nil, "due_date": "2025-06-01"},
			field: "deadline",
			want:  "2025-06-01",
		},
		{
			name:  "numeric zero is present",
			obj:   map[string]any{"value": 0.0, "contract_value": "99999"},
			field: "value",
			want:  "0",
		},
		{
			name:  "boolean false is present",
			obj:   map[string]any{"status": false},
			field: "status",
			want:  "false",
		},
		{
			name:  "no alias present",
			obj:   map[string]any{"unrelated": "x"},
			field: "agency",
			want:  "",
		},
		{
			name:  "unknown field probes its own name",
			obj:   map[string]any{"client": "City of Austin"},
			field: "client",
			want:  "City of Austin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.obj, tt.field); got != tt.want {
				t.Errorf("Resolve(%s) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"  padded  ", "padded"},
		{5000.0, "5000"},
		{5000.5, "5000.5"},
		{true, "true"},
		{int64(7), "7"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveContact(t *testing.T) {
	tests := []struct {
		name string
		obj  map[string]any
		want string
	}{
		{
			name: "string contact passes through",
			obj:  map[string]any{"contact_info": "John Doe, 555-0100"},
			want: "John Doe, 555-0100",
		},
		{
			name: "object contact composes parts",
			obj: map[string]any{"point_of_contact": map[string]any{
				"fullName": "Jane Smith",
				"email":    "jane@agency.gov",
				"phone":    "555-0101",
			}},
			want: "Name: Jane Smith, Email: jane@agency.gov, Phone: 555-0101",
		},
		{
			name: "partial object contact",
			obj: map[string]any{"pointOfContact": map[string]any{
				"email": "ops@agency.gov",
			}},
			want: "Email: ops@agency.gov",
		},
		{
			name: "first contact key wins",
			obj: map[string]any{
				"contact_info":     "Front Desk",
				"point_of_contact": map[string]any{"name": "Ignored"},
			},
			want: "Front Desk",
		},
		{
			name: "no contact",
			obj:  map[string]any{"title": "x"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveContact(tt.obj); got != tt.want {
				t.Errorf("ResolveContact() = %q, want %q", got, tt.want)
			}
		})
	}
}
