package api

import (
	"net/http"

	"ChangMatch/internal/config"
	"ChangMatch/internal/repository"
	"ChangMatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressHandler serves the job-progress stage lifecycle and customer
// feedback endpoints.
type ProgressHandler struct {
	progressService *service.JobProgressService
	logger          *logrus.Logger
	cfg             config.MatchingConfig
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(db *gorm.DB, logger *logrus.Logger, cfg config.MatchingConfig) *ProgressHandler {
	return &ProgressHandler{
		progressService: service.NewJobProgressService(db, logger),
		logger:          logger,
		cfg:             cfg,
	}
}

type stageUpdateRequest struct {
	Stage             string         `json:"stage" binding:"required"`
	Notes             string         `json:"notes"`
	LocationInfo      datatypes.JSON `json:"location_info"`
	EstimatedDuration string         `json:"estimated_duration"`
	ActualDuration    string         `json:"actual_duration"`
	FinalCost         *float64       `json:"final_cost"`
}

type feedbackRequest struct {
	OverallRating  int    `json:"overall_rating" binding:"required"`
	ServiceQuality int    `json:"service_quality" binding:"required"`
	Punctuality    int    `json:"punctuality" binding:"required"`
	Communication  int    `json:"communication" binding:"required"`
	ValueForMoney  int    `json:"value_for_money" binding:"required"`
	FeedbackText   string `json:"feedback_text"`
	WouldRecommend *bool  `json:"would_recommend"`
	WouldUseAgain  *bool  `json:"would_use_again"`
}

// UpdateProgress POST /api/job-progress/:matchId/update
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	matchID, ok := idParam(c, "matchId")
	if !ok {
		return
	}
	var req stageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	match, err := h.progressService.UpdateStage(c.Request.Context(), matchID, service.StageUpdate{
		Stage:             req.Stage,
		Notes:             req.Notes,
		LocationInfo:      req.LocationInfo,
		EstimatedDuration: req.EstimatedDuration,
		ActualDuration:    req.ActualDuration,
		FinalCost:         req.FinalCost,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, match, "job progress updated")
}

// GetProgress GET /api/job-progress/:matchId
// Match + parties + ordered tracking trail + feedback + stage definitions.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	matchID, ok := idParam(c, "matchId")
	if !ok {
		return
	}
	detail, err := h.progressService.GetProgress(c.Request.Context(), matchID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, detail)
}

// SubmitFeedback POST /api/job-progress/:matchId/customer-feedback
// Accepted only while the match's job_progress is completed.
func (h *ProgressHandler) SubmitFeedback(c *gin.Context) {
	matchID, ok := idParam(c, "matchId")
	if !ok {
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	fb, err := h.progressService.SubmitFeedback(c.Request.Context(), matchID, service.FeedbackInput{
		OverallRating:  req.OverallRating,
		ServiceQuality: req.ServiceQuality,
		Punctuality:    req.Punctuality,
		Communication:  req.Communication,
		ValueForMoney:  req.ValueForMoney,
		FeedbackText:   req.FeedbackText,
		WouldRecommend: req.WouldRecommend,
		WouldUseAgain:  req.WouldUseAgain,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, fb, "feedback recorded")
}

// ListProgress GET /api/job-progress?stage&provider_id&customer_id&page&limit
// Paginated in-progress jobs plus the per-stage statistics block.
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	filter := repository.ProgressFilter{
		Stage:      c.Query("stage"),
		ProviderID: uintQuery(c, "provider_id"),
		CustomerID: uintQuery(c, "customer_id"),
	}
	q := listQuery(c, h.cfg.ProgressPageSize)
	list, total, stats, err := h.progressService.ListProgress(c.Request.Context(), filter, q)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        list,
		"stage_stats": stats,
		"pagination":  newPagination(q.Page, q.Limit, total),
	})
}
