package models

import (
	"time"

	"github.com/google/uuid"
)

// UserOpportunity is one row of the user_opportunities table. The
// opportunity_data and ai_analysis columns are written by the upstream
// automation platform and arrive in whatever shape it produced that day:
// an object, a JSON string, a double-encoded JSON string, or worse. They
// are stored verbatim and normalized on read.
type UserOpportunity struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	OpportunityID  string    `json:"opportunity_id"`
	OpportunityRaw string    `json:"opportunity_data"`
	AIAnalysisRaw  string    `json:"ai_analysis"`
	RelevanceScore int       `json:"relevance_score"`
	IsSaved        bool      `json:"is_saved"`
	IsApplied      bool      `json:"is_applied"`
	SourcePlatform string    `json:"source_platform"`
	CreatedAt      time.Time `json:"created_at"`
}
