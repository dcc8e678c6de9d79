package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eimlabs/bidpilot/internal/auth"
	"github.com/eimlabs/bidpilot/internal/db"
	"github.com/eimlabs/bidpilot/internal/normalize"
	"github.com/eimlabs/bidpilot/internal/present"
)

// highMatchThreshold is the relevance score cutoff for the high-match
// list filter.
const highMatchThreshold = 80

// opportunityView is the list/detail payload after normalization. The
// raw upstream blob never reaches the client in list responses.
type opportunityView struct {
	ID             string           `json:"id"`
	Record         normalize.Record `json:"record"`
	RelevanceScore int              `json:"relevance_score"`
	IsSaved        bool             `json:"is_saved"`
	IsApplied      bool             `json:"is_applied"`
	SourcePlatform string           `json:"source_platform"`
	CreatedAt      time.Time        `json:"created_at"`
}

type opportunityDetail struct {
	opportunityView
	Details  string `json:"details"`
	Analysis string `json:"analysis,omitempty"`
	RawDump  string `json:"raw_dump,omitempty"`
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	rows, err := s.Store.ListUserOpportunities(c.Request().Context(), userID)
	if err != nil {
		s.log.Error("listing opportunities failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load opportunities"})
	}

	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	filter := c.QueryParam("filter")

	views := make([]opportunityView, 0, len(rows))
	for _, row := range rows {
		switch filter {
		case "saved":
			if !row.IsSaved {
				continue
			}
		case "applied":
			if !row.IsApplied {
				continue
			}
		case "high-match":
			if row.RelevanceScore < highMatchThreshold {
				continue
			}
		}

		rec := normalize.Decode(row.OpportunityRaw)
		if q != "" && !matchesQuery(rec, q) {
			continue
		}

		views = append(views, opportunityView{
			ID:             row.OpportunityID,
			Record:         rec,
			RelevanceScore: row.RelevanceScore,
			IsSaved:        row.IsSaved,
			IsApplied:      row.IsApplied,
			SourcePlatform: row.SourcePlatform,
			CreatedAt:      row.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"opportunities": views,
		"total":         len(views),
	})
}

// matchesQuery does a case-insensitive substring match over the fields
// users actually search on.
func matchesQuery(rec normalize.Record, q string) bool {
	for _, field := range []string{rec.Title, rec.Description, rec.Agency, rec.SubAgency, rec.NAICSCode, rec.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	row, err := s.Store.GetUserOpportunity(c.Request().Context(), userID, c.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
	}
	if err != nil {
		s.log.Error("fetching opportunity failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load opportunity"})
	}

	rec := normalize.Decode(row.OpportunityRaw)

	detail := opportunityDetail{
		opportunityView: opportunityView{
			ID:             row.OpportunityID,
			Record:         rec,
			RelevanceScore: row.RelevanceScore,
			IsSaved:        row.IsSaved,
			IsApplied:      row.IsApplied,
			SourcePlatform: row.SourcePlatform,
			CreatedAt:      row.CreatedAt,
		},
		Details:  present.Opportunity(rec),
		Analysis: present.Analysis(row.AIAnalysisRaw),
	}
	if rec.IsError() {
		detail.RawDump = present.RawDump(row.OpportunityRaw)
	}

	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handleSaveOpportunity(c echo.Context) error {
	return s.setOpportunityFlag(c, "save")
}

func (s *Server) handleUnsaveOpportunity(c echo.Context) error {
	return s.setOpportunityFlag(c, "unsave")
}

func (s *Server) handleApplyOpportunity(c echo.Context) error {
	return s.setOpportunityFlag(c, "apply")
}

func (s *Server) setOpportunityFlag(c echo.Context, action string) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	id := c.Param("id")

	switch action {
	case "save":
		err = s.Store.SetSaved(c.Request().Context(), userID, id, true)
	case "unsave":
		err = s.Store.SetSaved(c.Request().Context(), userID, id, false)
	case "apply":
		err = s.Store.SetApplied(c.Request().Context(), userID, id, true)
	}
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
	}
	if err != nil {
		s.log.Error("updating opportunity flag failed", zap.String("action", action), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update opportunity"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTriggerProposal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	id := c.Param("id")

	// The opportunity must belong to the user before we hand its id to
	// the workflow.
	if _, err := s.Store.GetUserOpportunity(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
		}
		s.log.Error("fetching opportunity failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load opportunity"})
	}

	ack, err := s.Webhooks.TriggerCreateProposal(c.Request().Context(), userID.String(), id)
	if err != nil {
		s.log.Warn("create-proposal webhook failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Proposal generation is unavailable right now"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted", "message": ack})
}
