package service

import (
	"context"
	"errors"
	"fmt"

	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CustomerService is the CRUD orchestration over customers. Creation also
// kicks off auto-match generation.
type CustomerService struct {
	logger     *logrus.Logger
	customers  repository.CustomerRepository
	categories repository.CategoryRepository
	matcher    *MatchService
}

// NewCustomerService creates a CustomerService; matcher runs the auto-match
// pass after creation.
func NewCustomerService(db *gorm.DB, logger *logrus.Logger, matcher *MatchService) *CustomerService {
	return &CustomerService{
		logger:     logger,
		customers:  repository.NewCustomerRepository(db),
		categories: repository.NewCategoryRepository(db),
		matcher:    matcher,
	}
}

// CustomerUpdate is the partial update accepted by Update.
type CustomerUpdate struct {
	Name             *string
	Phone            *string
	LineID           *string
	Location         *string
	District         *string
	Subdistrict      *string
	Province         *string
	CategoryID       *uint64
	JobDescription   *string
	BudgetRange      *string
	UrgencyLevel     *string
	PreferredContact *string
	IsActive         *bool
}

// Create validates the category reference, inserts the customer, then
// generates pending matches for the best same-category providers. The
// customer row stays even when match generation fails part way; the error is
// surfaced with the count of rows already created.
func (s *CustomerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, int, error) {
	if _, err := s.categories.Get(ctx, c.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("category %d: %w", c.CategoryID, ErrNotFound)
		}
		return nil, 0, err
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, 0, fmt.Errorf("create customer: %w", err)
	}

	created, err := s.matcher.GenerateForCustomer(ctx, c)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", c.ID).Error("auto-match generation failed")
		return c, created, fmt.Errorf("auto-match generation: %w", err)
	}
	return c, created, nil
}

// Get returns one customer by id.
func (s *CustomerService) Get(ctx context.Context, id uint64) (*model.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// List pages customers with the given filter.
func (s *CustomerService) List(ctx context.Context, filter repository.CustomerFilter, q repository.ListQuery) ([]*model.Customer, int64, error) {
	return s.customers.List(ctx, filter, q)
}

// Update merges the partial update into the stored customer.
func (s *CustomerService) Update(ctx context.Context, id uint64, upd CustomerUpdate) (*model.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *upd.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("category %d: %w", *upd.CategoryID, ErrNotFound)
			}
			return nil, err
		}
		c.CategoryID = *upd.CategoryID
	}
	setString(&c.Name, upd.Name)
	setString(&c.Phone, upd.Phone)
	setString(&c.LineID, upd.LineID)
	setString(&c.Location, upd.Location)
	setString(&c.District, upd.District)
	setString(&c.Subdistrict, upd.Subdistrict)
	setString(&c.Province, upd.Province)
	setString(&c.JobDescription, upd.JobDescription)
	setString(&c.BudgetRange, upd.BudgetRange)
	setString(&c.UrgencyLevel, upd.UrgencyLevel)
	setString(&c.PreferredContact, upd.PreferredContact)
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return c, nil
}

// Delete removes the customer row. Matches referencing it are left in place.
func (s *CustomerService) Delete(ctx context.Context, id uint64) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
