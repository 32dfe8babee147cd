package repository

import (
	"context"

	"ChangMatch/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository reads the immutable service category reference data.
type CategoryRepository interface {
	Get(ctx context.Context, id uint64) (*model.ServiceCategory, error)
	List(ctx context.Context) ([]*model.ServiceCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a CategoryRepository over db.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Get(ctx context.Context, id uint64) (*model.ServiceCategory, error) {
	var c model.ServiceCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.ServiceCategory, error) {
	var list []*model.ServiceCategory
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
