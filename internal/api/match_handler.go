package api

import (
	"strconv"

	"ChangMatch/internal/config"
	"ChangMatch/internal/repository"
	"ChangMatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MatchHandler serves match creation, status updates and the match listings.
type MatchHandler struct {
	matchService *service.MatchService
	logger       *logrus.Logger
	cfg          config.MatchingConfig
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(db *gorm.DB, logger *logrus.Logger, cfg config.MatchingConfig) *MatchHandler {
	return &MatchHandler{
		matchService: service.NewMatchService(db, logger, cfg),
		logger:       logger,
		cfg:          cfg,
	}
}

// Service exposes the underlying MatchService for wiring into the customer
// handler's auto-match pass.
func (h *MatchHandler) Service() *service.MatchService {
	return h.matchService
}

type createMatchRequest struct {
	ProviderID uint64 `json:"provider_id" binding:"required"`
	CustomerID uint64 `json:"customer_id" binding:"required"`
}

type updateStatusRequest struct {
	Status           string  `json:"status" binding:"required"`
	ProviderResponse *string `json:"provider_response"`
	CustomerResponse *string `json:"customer_response"`
	Rating           *int    `json:"rating"`
	Feedback         *string `json:"feedback"`
}

// CreateMatch POST /api/matches
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	match, err := h.matchService.CreateMatch(c.Request.Context(), req.ProviderID, req.CustomerID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondCreated(c, match, "match created")
}

// GetMatch GET /api/matches/:id
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	match, err := h.matchService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, match)
}

// UpdateStatus PUT /api/matches/:id/status
func (h *MatchHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	match, err := h.matchService.UpdateStatus(c.Request.Context(), id, service.StatusUpdate{
		Status:           req.Status,
		ProviderResponse: req.ProviderResponse,
		CustomerResponse: req.CustomerResponse,
		Rating:           req.Rating,
		Feedback:         req.Feedback,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, match, "match status updated")
}

// ListMatches GET /api/matches?provider_id&customer_id&status&page&limit&sort_by&order
func (h *MatchHandler) ListMatches(c *gin.Context) {
	filter := repository.MatchFilter{
		ProviderID: uintQuery(c, "provider_id"),
		CustomerID: uintQuery(c, "customer_id"),
		Status:     c.Query("status"),
	}
	q := listQuery(c, h.cfg.DefaultPageSize)
	list, total, err := h.matchService.List(c.Request.Context(), filter, q)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondList(c, list, newPagination(q.Page, q.Limit, total))
}

// AutoMatches GET /api/auto-matches?limit
// Matches at or above the score threshold, best score first, newest first.
func (h *MatchHandler) AutoMatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, err := h.matchService.AutoMatches(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, list)
}

// Stats GET /api/matches/stats
func (h *MatchHandler) Stats(c *gin.Context) {
	stats, err := h.matchService.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, stats)
}
