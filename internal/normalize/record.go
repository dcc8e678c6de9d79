package normalize

import "time"

// Placeholder values. Every canonical field always carries either a real
// value or one of these, so display code never branches on a missing key.
const (
	PlaceholderText    = "N/A"
	PlaceholderValue   = "0"
	PlaceholderMoney   = "$0"
	PlaceholderUnknown = "unknown"
)

// ErrorTitle is the sentinel title of a record whose payload could not be
// decoded at all.
const ErrorTitle = "Error Loading Opportunity"

// Tier identifies which decoding strategy produced a record.
type Tier int

const (
	TierObject    Tier = iota // input was already a mapping
	TierStrict                // strict JSON parse
	TierDouble                // double-encoded JSON, inner parse preferred
	TierRepaired              // parsed after textual repair
	TierBackslash             // legacy backslash-colon format
	TierRecovered             // regex field recovery only
	TierEmpty                 // input was neither a mapping nor a string
	TierFailed                // nothing usable recovered
)

func (t Tier) String() string {
	switch t {
	case TierObject:
		return "object"
	case TierStrict:
		return "strict"
	case TierDouble:
		return "double"
	case TierRepaired:
		return "repaired"
	case TierBackslash:
		return "backslash"
	case TierRecovered:
		return "recovered"
	case TierEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// RawData is the nested provenance block upstream attaches to each record.
type RawData struct {
	Source        string `json:"source"`
	OriginalID    string `json:"originalId"`
	LastProcessed string `json:"lastProcessed"`
}

// Metadata is the nested workflow block upstream attaches to each record.
type Metadata struct {
	ProcessedAt string `json:"processedAt"`
	WorkflowID  string `json:"workflowId"`
	ExecutionID string `json:"executionId"`
}

// Record is the canonical, always-complete view of an opportunity payload.
// No field is ever empty: absent upstream values get placeholders.
type Record struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Agency           string   `json:"agency"`
	SubAgency        string   `json:"subAgency"`
	PostedDate       string   `json:"postedDate"`
	ResponseDeadline string   `json:"responseDeadline"`
	NAICSCode        string   `json:"naicsCode"`
	Location         string   `json:"location"`
	Status           string   `json:"status"`
	EstimatedValue   string   `json:"estimatedValue"`
	FormattedValue   string   `json:"formattedValue"`
	Link             string   `json:"link"`
	Type             string   `json:"type"`
	Source           string   `json:"source"`
	RawData          RawData  `json:"rawData"`
	Metadata         Metadata `json:"metadata"`

	// Fields is the decoded candidate object, kept for alias lookups
	// beyond the canonical set (set-aside, PSC code, contacts, ...).
	// Nil when decoding never produced an object.
	Fields map[string]any `json:"-"`

	// Tier records which decoding strategy won. Diagnostic only.
	Tier Tier `json:"-"`
}

// emptyRecord returns a record with every field at its placeholder.
func emptyRecord(now time.Time) Record {
	iso := now.UTC().Format(time.RFC3339)
	return Record{
		Title:            PlaceholderText,
		Description:      PlaceholderText,
		Agency:           PlaceholderText,
		SubAgency:        PlaceholderText,
		PostedDate:       PlaceholderText,
		ResponseDeadline: PlaceholderText,
		NAICSCode:        PlaceholderText,
		Location:         PlaceholderText,
		Status:           PlaceholderText,
		EstimatedValue:   PlaceholderValue,
		FormattedValue:   PlaceholderMoney,
		Link:             PlaceholderText,
		Type:             PlaceholderText,
		Source:           PlaceholderUnknown,
		RawData: RawData{
			Source:        PlaceholderUnknown,
			OriginalID:    PlaceholderUnknown,
			LastProcessed: iso,
		},
		Metadata: Metadata{
			ProcessedAt: iso,
			WorkflowID:  PlaceholderText,
			ExecutionID: PlaceholderText,
		},
	}
}

// HasTitle reports whether the record carries a real title.
func (r Record) HasTitle() bool {
	return r.Title != PlaceholderText && r.Title != ErrorTitle && r.Title != ""
}

// IsError reports whether the record came out of a total decode failure.
func (r Record) IsError() bool {
	return r.Title == ErrorTitle
}
