package api

import (
	"errors"
	"net/http"
	"strconv"

	"ChangMatch/internal/repository"
	"ChangMatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pagination is the uniform pagination block of list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func newPagination(page, limit int, total int64) *Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// envelope is the uniform JSON response shape of every endpoint.
type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondOKMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

func respondList(c *gin.Context, data interface{}, p *Pagination) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: p})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Error: message})
}

func respondValidation(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: "validation failed", Errors: messages})
}

// respondServiceError maps service errors onto the envelope. Unexpected
// failures are logged and passed through as 500.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respondValidation(c, ve.Messages)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFeedbackNotAllowed):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateMatch):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.WithError(err).Error("request failed")
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// idParam parses a numeric path parameter.
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondValidation(c, []string{name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// listQuery reads the shared page/limit/sort_by/order query parameters.
// An absent or non-positive limit falls back to the configured page size.
func listQuery(c *gin.Context, defaultLimit int) repository.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = defaultLimit
	}
	return repository.ListQuery{
		Page:   page,
		Limit:  limit,
		SortBy: c.Query("sort_by"),
		Order:  c.Query("order"),
	}
}

// uintQuery reads an optional numeric query parameter, 0 when absent.
func uintQuery(c *gin.Context, name string) uint64 {
	v, _ := strconv.ParseUint(c.Query(name), 10, 64)
	return v
}
