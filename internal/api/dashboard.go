package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eimlabs/bidpilot/internal/auth"
	"github.com/eimlabs/bidpilot/internal/normalize"
)

const dashboardPreviewLimit = 5

func (s *Server) handleDashboard(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	ctx := c.Request().Context()

	counts, err := s.Store.DashboardStats(ctx, userID)
	if err != nil {
		s.log.Error("dashboard counts failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	recentOpps, err := s.Store.RecentOpportunities(ctx, userID, dashboardPreviewLimit)
	if err != nil {
		s.log.Error("recent opportunities failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	recentProps, err := s.Store.RecentProposals(ctx, userID, dashboardPreviewLimit)
	if err != nil {
		s.log.Error("recent proposals failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	oppTitles, err := s.opportunityTitles(ctx, userID)
	if err != nil {
		s.log.Error("listing opportunity payloads failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	oppViews := make([]opportunityView, 0, len(recentOpps))
	for _, row := range recentOpps {
		oppViews = append(oppViews, opportunityView{
			ID:             row.OpportunityID,
			Record:         normalize.Decode(row.OpportunityRaw),
			RelevanceScore: row.RelevanceScore,
			IsSaved:        row.IsSaved,
			IsApplied:      row.IsApplied,
			SourcePlatform: row.SourcePlatform,
			CreatedAt:      row.CreatedAt,
		})
	}

	propViews := make([]proposalView, 0, len(recentProps))
	for _, p := range recentProps {
		propViews = append(propViews, s.proposalToView(p, oppTitles))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"counts":               counts,
		"recent_opportunities": oppViews,
		"recent_proposals":     propViews,
	})
}
