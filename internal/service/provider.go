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

// ProviderService is the thin CRUD orchestration over providers.
type ProviderService struct {
	logger     *logrus.Logger
	providers  repository.ProviderRepository
	categories repository.CategoryRepository
}

// NewProviderService creates a ProviderService with repositories over db.
func NewProviderService(db *gorm.DB, logger *logrus.Logger) *ProviderService {
	return &ProviderService{
		logger:     logger,
		providers:  repository.NewProviderRepository(db),
		categories: repository.NewCategoryRepository(db),
	}
}

// ProviderUpdate is the partial update accepted by Update. Nil fields keep the
// stored value. Rating and TotalJobs are accepted here too even though the
// match lifecycle owns them; the generic update path has always been able to
// overwrite the aggregates.
type ProviderUpdate struct {
	Name         *string
	Phone        *string
	LineID       *string
	CategoryID   *uint64
	Location     *string
	District     *string
	Subdistrict  *string
	Province     *string
	Description  *string
	PriceRange   *string
	Availability *string
	Rating       *float64
	TotalJobs    *int
	IsActive     *bool
}

// Create validates the category reference and inserts the provider.
func (s *ProviderService) Create(ctx context.Context, p *model.Provider) (*model.Provider, error) {
	if _, err := s.categories.Get(ctx, p.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", p.CategoryID, ErrNotFound)
		}
		return nil, err
	}
	if err := s.providers.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return p, nil
}

// Get returns one provider by id.
func (s *ProviderService) Get(ctx context.Context, id uint64) (*model.Provider, error) {
	p, err := s.providers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("provider %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// List pages providers with the given filter.
func (s *ProviderService) List(ctx context.Context, filter repository.ProviderFilter, q repository.ListQuery) ([]*model.Provider, int64, error) {
	return s.providers.List(ctx, filter, q)
}

// Update merges the partial update into the stored provider.
func (s *ProviderService) Update(ctx context.Context, id uint64, upd ProviderUpdate) (*model.Provider, error) {
	p, err := s.Get(ctx, id)
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
		p.CategoryID = *upd.CategoryID
	}
	setString(&p.Name, upd.Name)
	setString(&p.Phone, upd.Phone)
	setString(&p.LineID, upd.LineID)
	setString(&p.Location, upd.Location)
	setString(&p.District, upd.District)
	setString(&p.Subdistrict, upd.Subdistrict)
	setString(&p.Province, upd.Province)
	setString(&p.Description, upd.Description)
	setString(&p.PriceRange, upd.PriceRange)
	setString(&p.Availability, upd.Availability)
	if upd.Rating != nil {
		p.Rating = *upd.Rating
	}
	if upd.TotalJobs != nil {
		p.TotalJobs = *upd.TotalJobs
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if err := s.providers.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update provider %d: %w", id, err)
	}
	return p, nil
}

// Delete removes the provider row. Matches referencing it are left in place.
func (s *ProviderService) Delete(ctx context.Context, id uint64) error {
	if err := s.providers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("provider %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
