package api

import (
	"fmt"

	"ChangMatch/internal/config"
	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"
	"ChangMatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CustomerHandler serves customer CRUD and listing. Creation also reports how
// many auto-matches were generated.
type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *logrus.Logger
	cfg             config.MatchingConfig
}

// NewCustomerHandler creates a CustomerHandler; matcher powers the auto-match
// pass on creation.
func NewCustomerHandler(db *gorm.DB, logger *logrus.Logger, cfg config.MatchingConfig, matcher *service.MatchService) *CustomerHandler {
	return &CustomerHandler{
		customerService: service.NewCustomerService(db, logger, matcher),
		logger:          logger,
		cfg:             cfg,
	}
}

type createCustomerRequest struct {
	Name             string `json:"name" binding:"required"`
	Phone            string `json:"phone" binding:"required"`
	LineID           string `json:"line_id"`
	Location         string `json:"location"`
	District         string `json:"district"`
	Subdistrict      string `json:"subdistrict"`
	Province         string `json:"province"`
	CategoryID       uint64 `json:"category_id" binding:"required"`
	JobDescription   string `json:"job_description"`
	BudgetRange      string `json:"budget_range"`
	UrgencyLevel     string `json:"urgency_level" binding:"omitempty,oneof=low medium high"`
	PreferredContact string `json:"preferred_contact" binding:"omitempty,oneof=phone line both"`
	IsActive         *bool  `json:"is_active"`
}

type updateCustomerRequest struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	LineID           *string `json:"line_id"`
	Location         *string `json:"location"`
	District         *string `json:"district"`
	Subdistrict      *string `json:"subdistrict"`
	Province         *string `json:"province"`
	CategoryID       *uint64 `json:"category_id"`
	JobDescription   *string `json:"job_description"`
	BudgetRange      *string `json:"budget_range"`
	UrgencyLevel     *string `json:"urgency_level" binding:"omitempty,oneof=low medium high"`
	PreferredContact *string `json:"preferred_contact" binding:"omitempty,oneof=phone line both"`
	IsActive         *bool   `json:"is_active"`
}

// CreateCustomer POST /api/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	urgency := req.UrgencyLevel
	if urgency == "" {
		urgency = model.UrgencyMedium
	}
	contact := req.PreferredContact
	if contact == "" {
		contact = model.ContactPhone
	}
	cust := &model.Customer{
		Name:             req.Name,
		Phone:            req.Phone,
		LineID:           req.LineID,
		Location:         req.Location,
		District:         req.District,
		Subdistrict:      req.Subdistrict,
		Province:         req.Province,
		CategoryID:       req.CategoryID,
		JobDescription:   req.JobDescription,
		BudgetRange:      req.BudgetRange,
		UrgencyLevel:     urgency,
		PreferredContact: contact,
		IsActive:         req.IsActive == nil || *req.IsActive,
	}
	created, matches, err := h.customerService.Create(c.Request.Context(), cust)
	if err != nil {
		// When match generation fails part way the customer row (and any
		// matches already inserted) stay in place; the error still surfaces.
		respondServiceError(c, h.logger, err)
		return
	}
	respondCreated(c, created, fmt.Sprintf("customer created, %d matches generated", matches))
}

// GetCustomer GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cust, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, cust)
}

// ListCustomers GET /api/customers?search&category_id&district&urgency_level&page&limit&sort_by&order
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := repository.CustomerFilter{
		Search:     c.Query("search"),
		CategoryID: uintQuery(c, "category_id"),
		District:   c.Query("district"),
		Urgency:    c.Query("urgency_level"),
	}
	q := listQuery(c, h.cfg.DefaultPageSize)
	list, total, err := h.customerService.List(c.Request.Context(), filter, q)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondList(c, list, newPagination(q.Page, q.Limit, total))
}

// UpdateCustomer PUT /api/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{err.Error()})
		return
	}
	cust, err := h.customerService.Update(c.Request.Context(), id, service.CustomerUpdate{
		Name:             req.Name,
		Phone:            req.Phone,
		LineID:           req.LineID,
		Location:         req.Location,
		District:         req.District,
		Subdistrict:      req.Subdistrict,
		Province:         req.Province,
		CategoryID:       req.CategoryID,
		JobDescription:   req.JobDescription,
		BudgetRange:      req.BudgetRange,
		UrgencyLevel:     req.UrgencyLevel,
		PreferredContact: req.PreferredContact,
		IsActive:         req.IsActive,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, cust, "customer updated")
}

// DeleteCustomer DELETE /api/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOKMessage(c, nil, "customer deleted")
}
