package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eimlabs/bidpilot/internal/auth"
	"github.com/eimlabs/bidpilot/internal/db"
	"github.com/eimlabs/bidpilot/internal/models"
	"github.com/eimlabs/bidpilot/internal/normalize"
	"github.com/eimlabs/bidpilot/internal/present"
)

type proposalView struct {
	ID              uuid.UUID  `json:"id"`
	OpportunityID   string     `json:"opportunity_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	Deadline        *time.Time `json:"deadline"`
	SubmissionDate  *time.Time `json:"submission_date"`
	OrphanedOpp     bool       `json:"orphaned_opportunity"`
	ComplianceScore string     `json:"compliance_score,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type proposalDetail struct {
	proposalView
	Document   string `json:"document"`
	Compliance string `json:"compliance,omitempty"`
}

func (s *Server) handleListProposals(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	ctx := c.Request().Context()

	proposals, err := s.Store.ListProposals(ctx, userID)
	if err != nil {
		s.log.Error("listing proposals failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load proposals"})
	}

	oppTitles, err := s.opportunityTitles(ctx, userID)
	if err != nil {
		s.log.Error("listing opportunity payloads failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load proposals"})
	}

	tab := c.QueryParam("tab")
	views := make([]proposalView, 0, len(proposals))
	for _, p := range proposals {
		if !matchesTab(p, tab) {
			continue
		}
		views = append(views, s.proposalToView(p, oppTitles))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"proposals": views,
		"total":     len(views),
	})
}

// matchesTab maps the list tabs onto the status predicates: the draft
// tab includes "In Progress" and the submitted tab includes "In Review".
func matchesTab(p models.Proposal, tab string) bool {
	switch tab {
	case "", "all":
		return true
	case "draft":
		return p.IsDraft()
	case "submitted":
		return p.IsSubmitted()
	case "won":
		return strings.EqualFold(p.Status, models.StatusWon)
	case "lost":
		return strings.EqualFold(p.Status, models.StatusLost)
	default:
		return strings.EqualFold(p.Status, tab)
	}
}

// opportunityTitles decodes every opportunity payload once so proposal
// rows can borrow titles and detect orphaned links. Key presence means
// the opportunity row exists; the value is "" when it has no real title.
func (s *Server) opportunityTitles(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	payloads, err := s.Store.OpportunityPayloads(ctx, userID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(payloads))
	for id, raw := range payloads {
		rec := normalize.Decode(raw)
		if rec.HasTitle() {
			titles[id] = rec.Title
		} else {
			titles[id] = ""
		}
	}
	return titles, nil
}

func (s *Server) proposalToView(p models.Proposal, oppTitles map[string]string) proposalView {
	oppTitle, exists := oppTitles[p.OpportunityID]

	// Title fallback chain: title embedded in the proposal content, then
	// the linked opportunity's title, then the stored row title.
	fallback := p.Title
	if oppTitle != "" {
		fallback = oppTitle
	}

	return proposalView{
		ID:              p.ID,
		OpportunityID:   p.OpportunityID,
		Title:           present.DisplayTitle(p.Content, fallback),
		Status:          p.Status,
		Deadline:        p.Deadline,
		SubmissionDate:  p.SubmissionDate,
		OrphanedOpp:     p.OpportunityID != "" && !exists,
		ComplianceScore: complianceScore(p.ComplianceRaw),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// complianceScore digs the headline score out of the stored analysis
// blob, whatever shape it arrived in.
func complianceScore(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	obj, _, ok := normalize.Candidate(raw)
	if !ok {
		return ""
	}
	for _, key := range []string{"score", "compliance_score", "overall_score"} {
		if v, present := obj[key]; present {
			if s := normalize.Stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func (s *Server) handleGetProposal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid proposal id"})
	}
	ctx := c.Request().Context()

	p, err := s.Store.GetProposal(ctx, userID, proposalID)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Proposal not found"})
	}
	if err != nil {
		s.log.Error("fetching proposal failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load proposal"})
	}

	oppTitles, err := s.opportunityTitles(ctx, userID)
	if err != nil {
		s.log.Error("listing opportunity payloads failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load proposal"})
	}

	detail := proposalDetail{
		proposalView: s.proposalToView(p, oppTitles),
		Document:     present.Proposal(p.Content),
		Compliance:   present.Analysis(p.ComplianceRaw),
	}

	return c.JSON(http.StatusOK, detail)
}

var allowedStatuses = map[string]bool{
	models.StatusDraft:      true,
	models.StatusInProgress: true,
	models.StatusSubmitted:  true,
	models.StatusInReview:   true,
	models.StatusWon:        true,
	models.StatusLost:       true,
	models.StatusOverdue:    true,
}

func (s *Server) handleUpdateProposalStatus(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid proposal id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	req.Status = strings.TrimSpace(req.Status)
	if !allowedStatuses[strings.ToLower(req.Status)] {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown status"})
	}

	err = s.Store.UpdateProposalStatus(c.Request().Context(), userID, proposalID, req.Status)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Proposal not found"})
	}
	if err != nil {
		s.log.Error("updating proposal status failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update proposal"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteProposal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid proposal id"})
	}

	err = s.Store.DeleteProposal(c.Request().Context(), userID, proposalID)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Proposal not found"})
	}
	if err != nil {
		s.log.Error("deleting proposal failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete proposal"})
	}

	return c.NoContent(http.StatusNoContent)
}
