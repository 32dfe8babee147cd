package api

import (
	"ChangMatch/internal/config"
	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"
	"ChangMatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProviderHandler serves provider CRUD and listing.
type ProviderHandler struct {
	providerService *service.ProviderService
	logger          *logrus.Logger
	cfg             config.MatchingConfig
}

// NewProviderHandler creates a ProviderHandler.
func NewProviderHandler(db *gorm.DB, logger *logrus.Logger, cfg config.MatchingConfig) *ProviderHandler {
	return &ProviderHandler{
		providerService: service.NewProviderService(db, logger),
		logger:          logger,
		cfg:             cfg,
	}
}

type createProviderRequest struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	LineID       string  `json:"line_id"`
	CategoryID   uint64  `json:"category_id" binding:"required"`
	Location     string  `json:"location"`
	District     string  `json:"district"`
	Subdistrict  string  `json:"subdistrict"`
	Province     string  `json:"province"`
	Description  string  `json:"description"`
	PriceRange   string  `json:"price_range"`
	Availability string  `json:"availability"`
	Rating       float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	IsActive     *bool   `json:"is_active"`
}

type updateProviderRequest struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	LineID       *string  `json:"line_id"`
	CategoryID   *uint64  `json:"category_id"`
	Location     *string  `json:"location"`
	District     *string  `json:"district"`
	Subdistrict  *string  `json:"subdistrict"`
	Province     *string  `json:"province"`
	Description  *string  `json:"description"`
	PriceRange   *string  `json:"price_range"`
	Availability *string  `json:"availability"`
	Rating       *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	TotalJobs    *int     `json:"total_jobs" binding:"omitempty,min=0"`
	IsActive     *bool    `json:"is_active"`
}

// CreateProvider POST /api/providers
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	p := &model.Provider{
		Name:         req.Name,
		Phone:        req.Phone,
		LineID:       req.LineID,
		CategoryID:   req.CategoryID,
		Location:     req.Location,
		District:     req.District,
		Subdistrict:  req.Subdistrict,
		Province:     req.Province,
		Description:  req.Description,
		PriceRange:   req.PriceRange,
		Availability: req.Availability,
		Rating:       req.Rating,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	created, err := h.providerService.Create(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondCreated(c, created, "provider created")
}

// GetProvider GET /api/providers/:id
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.providerService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, p)
}

// ListProviders GET /api/providers?search&category_id&district&subdistrict&page&limit&sort_by&order
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	filter := repository.ProviderFilter{
		Search:      c.Query("search"),
		CategoryID:  uintQuery(c, "category_id"),
		District:    c.Query("district"),
		Subdistrict: c.Query("subdistrict"),
	}
	q := listQuery(c, h.cfg.DefaultPageSize)
	list, total, err := h.providerService.List(c.Request.Context(), filter, q)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondList(c, list, newPagination(q.Page, q.Limit, total))
}

// UpdateProvider PUT /api/providers/:id
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	p, err := h.providerService.Update(c.Request.Context(), id, service.ProviderUpdate{
		Name:         req.Name,
		Phone:        req.Phone,
		LineID:       req.LineID,
		CategoryID:   req.CategoryID,
		Location:     req.Location,
		District:     req.District,
		Subdistrict:  req.Subdistrict,
		Province:     req.Province,
		Description:  req.Description,
		PriceRange:   req.PriceRange,
		Availability: req.Availability,
		Rating:       req.Rating,
		TotalJobs:    req.TotalJobs,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, p, "provider updated")
}

// DeleteProvider DELETE /api/providers/:id
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.providerService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, nil, "provider deleted")
}
