package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ChangMatch/internal/config"
	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MatchService owns match creation and the business-status lifecycle,
// including the provider aggregate side effects on completion.
type MatchService struct {
	db        *gorm.DB
	logger    *logrus.Logger
	cfg       config.MatchingConfig
	providers repository.ProviderRepository
	customers repository.CustomerRepository
	matches   repository.MatchRepository
}

// NewMatchService creates a MatchService with repositories over db.
func NewMatchService(db *gorm.DB, logger *logrus.Logger, cfg config.MatchingConfig) *MatchService {
	return &MatchService{
		db:        db,
		logger:    logger,
		cfg:       cfg,
		providers: repository.NewProviderRepository(db),
		customers: repository.NewCustomerRepository(db),
		matches:   repository.NewMatchRepository(db),
	}
}

// StatusUpdate is the partial update accepted by UpdateStatus. Nil fields keep
// the stored value. Empty response/feedback strings also fall back to the
// stored value, mirroring how the API has always treated them.
type StatusUpdate struct {
	Status           string
	ProviderResponse *string
	CustomerResponse *string
	Rating           *int
	Feedback         *string
}

// MatchStats is the aggregate report for the stats endpoint.
type MatchStats struct {
	Total         int64                           `json:"total"`
	ByStatus      map[string]int64                `json:"by_status"`
	TopCategories []repository.CategoryMatchCount `json:"top_categories"`
}

// CreateMatch scores and persists an explicitly requested pairing.
// The pair is duplicate-checked in application code: any existing row for the
// same provider and customer blocks a second match.
func (s *MatchService) CreateMatch(ctx context.Context, providerID, customerID uint64) (*model.Match, error) {
	provider, err := s.providers.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("provider %d: %w", providerID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch provider %d: %w", providerID, err)
	}
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch customer %d: %w", customerID, err)
	}

	exists, err := s.matches.ExistsForPair(ctx, providerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicateMatch
	}

	match := &model.Match{
		ProviderID: providerID,
		CustomerID: customerID,
		MatchScore: ManualMatchScore(provider, customer),
		Status:     model.MatchStatusPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches := repository.NewMatchRepository(tx)
		if err := matches.Create(ctx, match); err != nil {
			return err
		}
		return matches.AppendHistory(ctx, &model.MatchHistory{
			MatchID:     match.ID,
			Action:      "match_created",
			Description: fmt.Sprintf("manual match created for provider %d and customer %d (score %.2f)", providerID, customerID, match.MatchScore),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return match, nil
}

// Get returns one match by id.
func (s *MatchService) Get(ctx context.Context, id uint64) (*model.Match, error) {
	m, err := s.matches.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

// List pages matches with the given filter.
func (s *MatchService) List(ctx context.Context, filter repository.MatchFilter, q repository.ListQuery) ([]*model.Match, int64, error) {
	return s.matches.List(ctx, filter, q)
}

// AutoMatches returns matches at or above the configured score threshold,
// best first.
func (s *MatchService) AutoMatches(ctx context.Context, limit int) ([]*model.Match, error) {
	return s.matches.AutoMatches(ctx, s.cfg.AutoScoreThreshold, limit)
}

// Stats reports total/per-status counts plus the top five categories by match
// volume.
func (s *MatchService) Stats(ctx context.Context) (*MatchStats, error) {
	total, byStatus, err := s.matches.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	top, err := s.matches.TopCategories(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return &MatchStats{Total: total, ByStatus: byStatus, TopCategories: top}, nil
}

// UpdateStatus applies a merge-update to the business status. Omitted fields
// keep the stored value; response_date is always restamped; completion_date is
// stamped only when the new status is completed.
//
// Side effect on completed: total_jobs is incremented and, when a rating was
// supplied, the provider rating becomes the mean of all non-null ratings
// across that provider's matches. The update is deliberately not idempotent:
// completing the same match twice increments total_jobs twice.
func (s *MatchService) UpdateStatus(ctx context.Context, id uint64, upd StatusUpdate) (*model.Match, error) {
	if !model.ValidMatchStatus(upd.Status) {
		return nil, NewValidationError(fmt.Sprintf("status must be one of %v", model.MatchStatuses))
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return nil, NewValidationError("rating must be between 1 and 5")
	}

	match, err := s.matches.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":            upd.Status,
		"provider_response": coalesce(upd.ProviderResponse, match.ProviderResponse),
		"customer_response": coalesce(upd.CustomerResponse, match.CustomerResponse),
		"feedback":          coalesce(upd.Feedback, match.Feedback),
		"response_date":     now,
	}
	if upd.Rating != nil {
		fields["rating"] = *upd.Rating
	}
	if upd.Status == model.MatchStatusCompleted {
		fields["completion_date"] = now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches := repository.NewMatchRepository(tx)
		if err := matches.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if upd.Status == model.MatchStatusCompleted {
			var mean *float64
			if upd.Rating != nil {
				ratings, err := matches.RatingsForProvider(ctx, match.ProviderID)
				if err != nil {
					return err
				}
				if len(ratings) > 0 {
					sum := 0
					for _, r := range ratings {
						sum += r
					}
					m := float64(sum) / float64(len(ratings))
					mean = &m
				}
			}
			if err := repository.NewProviderRepository(tx).ApplyCompletion(ctx, match.ProviderID, mean); err != nil {
				return err
			}
		}
		return matches.AppendHistory(ctx, &model.MatchHistory{
			MatchID:     id,
			Action:      "status_updated",
			Description: fmt.Sprintf("status changed from %s to %s", match.Status, upd.Status),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("update match %d status: %w", id, err)
	}

	return s.matches.Get(ctx, id)
}

// coalesce keeps the stored value when the incoming one is absent or empty.
func coalesce(in *string, existing string) string {
	if in == nil || *in == "" {
		return existing
	}
	return *in
}
