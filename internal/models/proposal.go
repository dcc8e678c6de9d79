package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proposal is a user-authored response document tied to an opportunity.
// Content and ComplianceRaw are upstream payloads stored verbatim.
type Proposal struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	OpportunityID  string     `json:"opportunity_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	ComplianceRaw  string     `json:"compliance_analysis"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline"`
	SubmissionDate *time.Time `json:"submission_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Status vocabulary as produced by the upstream platform. Comparison is
// case-insensitive; unknown statuses pass through untouched.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in progress"
	StatusSubmitted  = "submitted"
	StatusInReview   = "in review"
	StatusWon        = "won"
	StatusLost       = "lost"
	StatusOverdue    = "overdue"
)

// IsDraft reports whether the proposal is still being worked on.
// "In Progress" counts as a draft, matching the dashboard tabs.
func (p Proposal) IsDraft() bool {
	s := strings.ToLower(p.Status)
	return s == StatusDraft || s == StatusInProgress
}

// IsSubmitted reports whether the proposal has been handed to the agency.
// "In Review" counts as submitted.
func (p Proposal) IsSubmitted() bool {
	s := strings.ToLower(p.Status)
	return s == StatusSubmitted || s == StatusInReview
}

// IsTerminal reports whether the proposal reached a final outcome.
func (p Proposal) IsTerminal() bool {
	s := strings.ToLower(p.Status)
	return s == StatusWon || s == StatusLost
}
