package repository

import (
	"context"

	"ChangMatch/internal/model"

	"gorm.io/gorm"
)

// CustomerFilter is the optional filter surface for customer listings.
type CustomerFilter struct {
	Search     string // substring match on name + job_description
	CategoryID uint64 // exact match
	District   string // substring match
	Urgency    string // exact match: low/medium/high
}

// CustomerRepository persists customer service requests.
type CustomerRepository interface {
	Get(ctx context.Context, id uint64) (*model.Customer, error)
	List(ctx context.Context, filter CustomerFilter, q ListQuery) ([]*model.Customer, int64, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uint64) error
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a CustomerRepository over db.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

var customerSortFields = []string{"name", "urgency_level", "created_at"}

func (r *customerRepository) Get(ctx context.Context, id uint64) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter, q ListQuery) ([]*model.Customer, int64, error) {
	page, limit, orderBy := q.normalize(10, customerSortFields, "created_at")

	db := r.db.WithContext(ctx).Model(&model.Customer{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("name LIKE ? OR job_description LIKE ?", like, like)
	}
	if filter.CategoryID != 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.District != "" {
		db = db.Where("district LIKE ?", "%"+filter.District+"%")
	}
	if filter.Urgency != "" {
		db = db.Where("urgency_level = ?", filter.Urgency)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Customer
	if err := db.Order(orderBy).Offset(offset(page, limit)).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete is a plain delete: match rows referencing the customer are left in
// place (no cascade).
func (r *customerRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
