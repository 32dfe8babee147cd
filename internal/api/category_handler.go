package api

import (
	"errors"
	"net/http"

	"ChangMatch/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryHandler serves the service category reference data.
type CategoryHandler struct {
	categories repository.CategoryRepository
	logger     *logrus.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(db *gorm.DB, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: repository.NewCategoryRepository(db),
		logger:     logger,
	}
}

// ListCategories GET /api/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListCategories failed")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, list)
}

// GetCategory GET /api/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "category not found")
			return
		}
		h.logger.WithError(err).Error("GetCategory failed")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, cat)
}
