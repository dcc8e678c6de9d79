package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eimlabs/bidpilot/internal/auth"
	"github.com/eimlabs/bidpilot/internal/db"
	"github.com/eimlabs/bidpilot/internal/webhook"
)

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Webhooks    *webhook.Client
	Echo        *echo.Echo

	log *zap.Logger
}

func NewServer(store *db.Store, authService *auth.Service, webhooks *webhook.Client, corsOrigins []string, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:5173"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		Store:       store,
		AuthService: authService,
		Webhooks:    webhooks,
		Echo:        e,
		log:         log,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.Echo.Group("/api/v1")

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("")
	protected.Use(auth.Middleware(s.AuthService.Secret()))

	protected.GET("/opportunities", s.handleListOpportunities)
	protected.GET("/opportunities/:id", s.handleGetOpportunity)
	protected.POST("/opportunities/:id/save", s.handleSaveOpportunity)
	protected.DELETE("/opportunities/:id/save", s.handleUnsaveOpportunity)
	protected.POST("/opportunities/:id/apply", s.handleApplyOpportunity)
	protected.POST("/opportunities/:id/proposal", s.handleTriggerProposal)

	protected.GET("/proposals", s.handleListProposals)
	protected.GET("/proposals/:id", s.handleGetProposal)
	protected.PATCH("/proposals/:id/status", s.handleUpdateProposalStatus)
	protected.DELETE("/proposals/:id", s.handleDeleteProposal)

	protected.GET("/dashboard", s.handleDashboard)
	protected.POST("/consultant/message", s.handleConsultantMessage)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and a password of at least 8 characters are required"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		s.log.Error("signup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Signup failed"})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		s.log.Error("login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login failed"})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleConsultantMessage(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	reply, err := s.Webhooks.SendConsultantMessage(c.Request().Context(), req.Message, userID.String())
	if err != nil {
		s.log.Warn("consultant webhook failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Consultant is unavailable right now"})
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}
