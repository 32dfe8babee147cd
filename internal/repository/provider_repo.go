package repository

import (
	"context"

	"ChangMatch/internal/model"

	"gorm.io/gorm"
)

// ProviderFilter is the optional filter surface for provider listings.
type ProviderFilter struct {
	Search      string // substring match on name + description
	CategoryID  uint64 // exact match
	District    string // substring match
	Subdistrict string // substring match
}

// ProviderRepository persists service providers.
type ProviderRepository interface {
	Get(ctx context.Context, id uint64) (*model.Provider, error)
	List(ctx context.Context, filter ProviderFilter, q ListQuery) ([]*model.Provider, int64, error)
	// ListCandidates returns active providers in a category, for auto-match
	// candidate selection.
	ListCandidates(ctx context.Context, categoryID uint64) ([]*model.Provider, error)
	Create(ctx context.Context, p *model.Provider) error
	Update(ctx context.Context, p *model.Provider) error
	Delete(ctx context.Context, id uint64) error
	// ApplyCompletion increments total_jobs and, when ratingMean is non-nil,
	// overwrites the provider's aggregate rating. Called by the match
	// lifecycle on completion; nothing else touches these aggregates.
	ApplyCompletion(ctx context.Context, id uint64, ratingMean *float64) error
}

type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a ProviderRepository over db.
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

var providerSortFields = []string{"name", "rating", "total_jobs", "created_at"}

func (r *providerRepository) Get(ctx context.Context, id uint64) (*model.Provider, error) {
	var p model.Provider
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *providerRepository) List(ctx context.Context, filter ProviderFilter, q ListQuery) ([]*model.Provider, int64, error) {
	page, limit, orderBy := q.normalize(10, providerSortFields, "created_at")

	db := r.db.WithContext(ctx).Model(&model.Provider{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.CategoryID != 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.District != "" {
		db = db.Where("district LIKE ?", "%"+filter.District+"%")
	}
	if filter.Subdistrict != "" {
		db = db.Where("subdistrict LIKE ?", "%"+filter.Subdistrict+"%")
	}

	// Count shares the exact predicate chain so total matches the filtered set.
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Provider
	if err := db.Order(orderBy).Offset(offset(page, limit)).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *providerRepository) ListCandidates(ctx context.Context, categoryID uint64) ([]*model.Provider, error) {
	var list []*model.Provider
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *providerRepository) Create(ctx context.Context, p *model.Provider) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *providerRepository) Update(ctx context.Context, p *model.Provider) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete is a plain delete: match rows referencing the provider are left in
// place (no cascade).
func (r *providerRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Provider{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *providerRepository) ApplyCompletion(ctx context.Context, id uint64, ratingMean *float64) error {
	updates := map[string]interface{}{
		"total_jobs": gorm.Expr("total_jobs + 1"),
	}
	if ratingMean != nil {
		updates["rating"] = *ratingMean
	}
	return r.db.WithContext(ctx).Model(&model.Provider{}).
		Where("id = ?", id).
		Updates(updates).Error
}
