package repository

import (
	"context"

	"ChangMatch/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressFilter is the filter surface for the job-progress listing.
type ProgressFilter struct {
	Stage      string // exact match against the closed stage set
	ProviderID uint64 // exact match
	CustomerID uint64 // exact match
}

// ProgressRepository persists the per-stage tracking trail and customer
// feedback.
type ProgressRepository interface {
	AppendTracking(ctx context.Context, t *model.JobProgressTracking) error
	ListTracking(ctx context.Context, matchID uint64) ([]*model.JobProgressTracking, error)
	// UpsertFeedback inserts or overwrites the single feedback row for a match.
	UpsertFeedback(ctx context.Context, fb *model.CustomerFeedback) error
	GetFeedback(ctx context.Context, matchID uint64) (*model.CustomerFeedback, error)
	// ListInProgress pages matches that have entered the progress pipeline
	// (non-null job_progress), newest first.
	ListInProgress(ctx context.Context, filter ProgressFilter, q ListQuery) ([]*model.Match, int64, error)
	// StageCounts returns the total number of in-progress jobs and a
	// zero-filled count per stage.
	StageCounts(ctx context.Context) (int64, map[string]int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a ProgressRepository over db.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) AppendTracking(ctx context.Context, t *model.JobProgressTracking) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *progressRepository) ListTracking(ctx context.Context, matchID uint64) ([]*model.JobProgressTracking, error) {
	var list []*model.JobProgressTracking
	if err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *progressRepository) UpsertFeedback(ctx context.Context, fb *model.CustomerFeedback) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall_rating", "service_quality", "punctuality", "communication",
			"value_for_money", "feedback_text", "would_recommend", "would_use_again",
		}),
	}).Create(fb).Error
}

func (r *progressRepository) GetFeedback(ctx context.Context, matchID uint64) (*model.CustomerFeedback, error) {
	var fb model.CustomerFeedback
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&fb).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *progressRepository) ListInProgress(ctx context.Context, filter ProgressFilter, q ListQuery) ([]*model.Match, int64, error) {
	page, limit, orderBy := q.normalize(20, matchSortFields, "match_date")

	db := r.db.WithContext(ctx).Model(&model.Match{}).Where("job_progress IS NOT NULL")
	if filter.Stage != "" {
		db = db.Where("job_progress = ?", filter.Stage)
	}
	if filter.ProviderID != 0 {
		db = db.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.CustomerID != 0 {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Match
	if err := db.Order(orderBy).Offset(offset(page, limit)).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *progressRepository) StageCounts(ctx context.Context) (int64, map[string]int64, error) {
	type row struct {
		Stage string
		N     int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Select("job_progress AS stage, COUNT(*) AS n").
		Where("job_progress IS NOT NULL").
		Group("job_progress").
		Scan(&rows).Error; err != nil {
		return 0, nil, err
	}
	counts := make(map[string]int64, len(model.JobProgressStages))
	for _, s := range model.JobProgressStages {
		counts[s] = 0
	}
	var total int64
	for _, rw := range rows {
		counts[rw.Stage] = rw.N
		total += rw.N
	}
	return total, counts, nil
}
